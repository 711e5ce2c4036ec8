package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_listing/internal/auth"
	"hotel_listing/internal/domain"
)

const DefaultUsersLimit = 10

// AuthService handles self-service account flows.
type AuthService struct {
	users    domain.UserRepository
	tokens   *auth.TokenIssuer
	adminKey string
	cost     int
	now      func() time.Time
}

func NewAuthService(u domain.UserRepository, t *auth.TokenIssuer, adminKey string, bcryptCost int) *AuthService {
	return &AuthService{users: u, tokens: t, adminKey: adminKey, cost: bcryptCost, now: func() time.Time { return time.Now().UTC() }}
}

// Session is a user together with a freshly issued token.
type Session struct {
	User  domain.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if err := in.Validate(); err != nil {
		return Session{}, err
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return Session{}, domain.Conflictf("User with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return Session{}, err
	}
	role := domain.RoleUser
	if s.adminKey != "" && in.AdminKey == s.adminKey {
		role = domain.RoleAdmin
	}
	hash, err := auth.HashPassword(in.Password, s.cost)
	if err != nil {
		return Session{}, err
	}
	now := s.now()
	u := domain.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: role, CreatedAt: now, UpdatedAt: now}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		return Session{}, err
	}
	log.Info().Int64("user_id", u.ID).Str("role", u.Role).Msg("user registered")
	return s.session(u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	if err := in.Validate(); err != nil {
		return Session{}, err
	}
	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, domain.Unauthorizedf("Invalid email or password")
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return Session{}, domain.Unauthorizedf("Invalid email or password")
	}
	return s.session(u)
}

// Authenticate resolves a raw token to its (still existing) user.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (domain.User, error) {
	if raw == "" {
		return domain.User{}, domain.Unauthorizedf("Not authorized, no token")
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return domain.User{}, domain.Unauthorizedf("Not authorized, token failed")
	}
	u, err := s.users.GetUser(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.Unauthorizedf("Not authorized, user not found")
	}
	return u, err
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (domain.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.NotFoundf("User not found")
	}
	return u, err
}

// ChangePassword updates the caller's own password.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, in PasswordChangeInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, in.CurrentPassword) {
		return domain.Unauthorizedf("Current password is incorrect")
	}
	if u.PasswordHash, err = auth.HashPassword(in.NewPassword, s.cost); err != nil {
		return err
	}
	u.UpdatedAt = s.now()
	return s.users.UpdateUser(ctx, &u)
}

// TokenTTL is the lifetime of issued tokens, used for cookie max-age.
func (s *AuthService) TokenTTL() time.Duration { return s.tokens.TTL() }

func (s *AuthService) session(u domain.User) (Session, error) {
	tok, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return Session{}, err
	}
	return Session{User: u, Token: tok}, nil
}

// UserService is the admin-only account management surface. Every operation
// takes the acting admin's id and refuses to target it.
type UserService struct {
	users domain.UserRepository
	cost  int
	now   func() time.Time
}

func NewUserService(u domain.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: u, cost: bcryptCost, now: func() time.Time { return time.Now().UTC() }}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (domain.User, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	if err := s.emailFree(ctx, in.Email, 0); err != nil {
		return domain.User{}, err
	}
	hash, err := auth.HashPassword(in.Password, s.cost)
	if err != nil {
		return domain.User{}, err
	}
	now := s.now()
	u := domain.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: in.Role, CreatedAt: now, UpdatedAt: now}
	if err := s.users.CreateUser(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// List pages through users other than the caller, optionally matching
// search against name or email.
func (s *UserService) List(ctx context.Context, actorID int64, search string, page, limit int) (domain.UsersPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultUsersLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	c := domain.UserCriteria{
		Search:    optString(strings.TrimSpace(search)),
		ExcludeID: actorID,
		Offset:    pageOffset(page, limit),
		Limit:     limit,
	}
	items, total, err := s.users.ListUsers(ctx, c)
	if err != nil {
		return domain.UsersPage{}, err
	}
	if items == nil {
		items = []domain.User{}
	}
	return domain.UsersPage{Items: items, Total: total, Page: page, Pages: Paginate(total, limit)}, nil
}

func (s *UserService) Get(ctx context.Context, actorID, id int64) (domain.User, error) {
	if actorID == id {
		return domain.User{}, domain.Forbiddenf("You cannot fetch your own account via this endpoint")
	}
	return s.load(ctx, id)
}

func (s *UserService) Update(ctx context.Context, actorID, id int64, in UpdateUserInput) (domain.User, error) {
	if actorID == id {
		return domain.User{}, domain.Forbiddenf("You cannot update your own account via this endpoint")
	}
	if err := in.Validate(); err != nil {
		return domain.User{}, err
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if in.Email != nil && *in.Email != u.Email {
		if err := s.emailFree(ctx, *in.Email, id); err != nil {
			return domain.User{}, err
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Password != nil && *in.Password != "" {
		if u.PasswordHash, err = auth.HashPassword(*in.Password, s.cost); err != nil {
			return domain.User{}, err
		}
	}
	u.UpdatedAt = s.now()
	if err := s.users.UpdateUser(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return domain.Forbiddenf("You cannot delete your own account")
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return s.users.DeleteUser(ctx, id)
}

func (s *UserService) ResetPassword(ctx context.Context, actorID, id int64, in PasswordResetInput) error {
	if actorID == id {
		return domain.Forbiddenf("Use update-password to change your own password")
	}
	if err := in.Validate(); err != nil {
		return err
	}
	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if u.PasswordHash, err = auth.HashPassword(in.NewPassword, s.cost); err != nil {
		return err
	}
	u.UpdatedAt = s.now()
	return s.users.UpdateUser(ctx, &u)
}

func (s *UserService) load(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.NotFoundf("User not found")
	}
	return u, err
}

func (s *UserService) emailFree(ctx context.Context, email string, self int64) error {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if u.ID != self {
		if self == 0 {
			return domain.Conflictf("User already exists with this email")
		}
		return domain.Conflictf("Email already in use by another account")
	}
	return nil
}
