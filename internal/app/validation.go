package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"hotel_listing/internal/auth"
	"hotel_listing/internal/domain"
)

var validate = newValidator()

// newValidator reports fields by their json names and adds the "bcrypt"
// tag, which caps a password at what bcrypt will hash.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	if err := v.RegisterValidation("bcrypt", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	}); err != nil {
		panic(err)
	}
	return v
}

// checkStruct runs the tag rules on s. A missing field wins over any other
// failure and is reported with required as the message.
func checkStruct(s any, required string) error {
	err := validate.Struct(s)
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return err
	}
	for _, fe := range fes {
		if fe.Tag() == "required" {
			return fieldError(fe, required)
		}
	}
	return fieldError(fes[0], required)
}

func fieldError(fe validator.FieldError, required string) *domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(required).WithField(field, "required")
	case "email":
		return domain.NewValidationError("Invalid email format").WithField(field, "invalid")
	case "min":
		// only passwords carry a minimum
		return domain.NewValidationError(fmt.Sprintf("Password must be at least %s characters", fe.Param())).
			WithField(field, "too short")
	case "bcrypt":
		return domain.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", auth.MaxPasswordBytes)).
			WithField(field, "too long")
	case "max":
		return domain.NewValidationError(fmt.Sprintf("%s must be at most %s characters", field, fe.Param())).
			WithField(field, "too long")
	case "e164":
		msg := "Invalid phone number format"
		if field == "whatsapp" {
			msg = "Invalid WhatsApp number format"
		}
		return domain.NewValidationError(msg).
			WithField(field, "must be E.164, e.g. +2341234567890").
			WithDetail("received", fe.Value())
	case "oneof":
		return domain.NewValidationError(fmt.Sprintf("Invalid %s specified", field)).
			WithField(field, "must be one of "+strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return domain.NewValidationError(fmt.Sprintf("%s is invalid", field)).WithField(field, fe.Tag())
}

// HotelForm is the raw create/update payload as it arrives from a form or a
// JSON body. Rooms and Amenities hold JSON array text. Nil means the field
// was not sent.
type HotelForm struct {
	Name             *string
	State            *string
	City             *string
	Description      *string
	Address          *string
	Phone            *string
	WhatsApp         *string
	WhatsAppTemplate *string
	Rooms            *string
	Amenities        *string
}

type CreateHotelInput struct {
	Name             string        `json:"name" validate:"required,max=100"`
	State            string        `json:"state" validate:"required"`
	City             string        `json:"city" validate:"required"`
	Description      string        `json:"description" validate:"required,max=2000"`
	Address          string        `json:"address" validate:"required,max=500"`
	Phone            string        `json:"phone" validate:"required,e164"`
	WhatsApp         string        `json:"whatsapp" validate:"omitempty,e164"`
	WhatsAppTemplate string        `json:"whatsappMessageTemplate"`
	Rooms            []domain.Room `json:"rooms"`
	Amenities        []string      `json:"amenities"`
}

// UpdateHotelInput carries only the fields to change. A nil Rooms or
// Amenities slice leaves the stored value untouched; a non-nil empty
// Amenities clears it. State and City are applied together.
type UpdateHotelInput struct {
	Name             *string
	State            *string
	City             *string
	Description      *string
	Address          *string
	Phone            *string
	WhatsApp         *string
	WhatsAppTemplate *string
	Rooms            []domain.Room
	Amenities        []string
}

// hotelPatch holds the present scalar fields of an update; absent ones stay
// empty and are skipped.
type hotelPatch struct {
	Name        string `json:"name" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	Phone       string `json:"phone" validate:"omitempty,e164"`
	WhatsApp    string `json:"whatsapp" validate:"omitempty,e164"`
}

func ValidateCreate(f HotelForm) (CreateHotelInput, error) {
	in := CreateHotelInput{
		Name:             strings.TrimSpace(derefOr(f.Name)),
		State:            strings.TrimSpace(derefOr(f.State)),
		City:             strings.TrimSpace(derefOr(f.City)),
		Description:      strings.TrimSpace(derefOr(f.Description)),
		Address:          strings.TrimSpace(derefOr(f.Address)),
		Phone:            strings.TrimSpace(derefOr(f.Phone)),
		WhatsApp:         strings.TrimSpace(derefOr(f.WhatsApp)),
		WhatsAppTemplate: strings.TrimSpace(derefOr(f.WhatsAppTemplate)),
	}
	err := validate.Struct(in)
	var fes validator.ValidationErrors
	if errors.As(err, &fes) {
		var missing []string
		for _, fe := range fes {
			if fe.Tag() == "required" {
				missing = append(missing, fe.Field())
			}
		}
		if len(missing) == 0 {
			return CreateHotelInput{}, fieldError(fes[0], "")
		}
		verr := domain.NewValidationError("Please fill all required fields").WithDetail("missingFields", missing)
		for _, m := range missing {
			verr.WithField(m, "required")
		}
		return CreateHotelInput{}, verr
	} else if err != nil {
		return CreateHotelInput{}, err
	}

	rooms, err := parseRooms(derefOr(f.Rooms))
	if err != nil {
		return CreateHotelInput{}, err
	}
	in.Rooms = rooms
	amen, err := parseAmenities(derefOr(f.Amenities))
	if err != nil {
		return CreateHotelInput{}, err
	}
	in.Amenities = amen
	if in.WhatsAppTemplate == "" {
		in.WhatsAppTemplate = domain.DefaultWhatsAppTemplate(in.Name)
	}
	return in, nil
}

// ValidateUpdate applies the create rules to present fields only. Sending an
// empty required field is treated as an attempt to clear it and rejected.
// Blank rooms or amenities text counts as not sent; "[]" clears amenities.
func ValidateUpdate(f HotelForm) (UpdateHotelInput, error) {
	var in UpdateHotelInput
	trim := func(field string, p *string, required bool) (*string, error) {
		if p == nil {
			return nil, nil
		}
		s := strings.TrimSpace(*p)
		if required && s == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("%s cannot be empty", field)).WithField(field, "required")
		}
		return &s, nil
	}
	var err error
	for _, x := range []struct {
		field    string
		src      *string
		dst      **string
		required bool
	}{
		{"name", f.Name, &in.Name, true},
		{"state", f.State, &in.State, true},
		{"city", f.City, &in.City, true},
		{"description", f.Description, &in.Description, true},
		{"address", f.Address, &in.Address, true},
		{"phone", f.Phone, &in.Phone, true},
		{"whatsapp", f.WhatsApp, &in.WhatsApp, false},
		{"whatsappMessageTemplate", f.WhatsAppTemplate, &in.WhatsAppTemplate, false},
	} {
		if *x.dst, err = trim(x.field, x.src, x.required); err != nil {
			return UpdateHotelInput{}, err
		}
	}
	if (in.State == nil) != (in.City == nil) {
		return UpdateHotelInput{}, domain.NewValidationError("Both state and city are required").
			WithField("state", "required with city").WithField("city", "required with state")
	}
	patch := hotelPatch{
		Name:        derefOr(in.Name),
		Description: derefOr(in.Description),
		Address:     derefOr(in.Address),
		Phone:       derefOr(in.Phone),
		WhatsApp:    derefOr(in.WhatsApp),
	}
	if err := checkStruct(patch, ""); err != nil {
		return UpdateHotelInput{}, err
	}
	if f.Rooms != nil && strings.TrimSpace(*f.Rooms) != "" {
		if in.Rooms, err = parseRooms(*f.Rooms); err != nil {
			return UpdateHotelInput{}, err
		}
	}
	if f.Amenities != nil && strings.TrimSpace(*f.Amenities) != "" {
		if in.Amenities, err = parseAmenities(*f.Amenities); err != nil {
			return UpdateHotelInput{}, err
		}
	}
	return in, nil
}

type rawRoom struct {
	Type  string `json:"type"`
	Price any    `json:"price"`
}

func parseRooms(raw string) ([]domain.Room, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "[]"
	}
	var in []rawRoom
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, domain.NewValidationError("Invalid room data format").
			WithField("rooms", "must be an array of {type, price}").
			WithDetail("error", err.Error())
	}
	if len(in) == 0 {
		return nil, domain.NewValidationError("At least one room type is required").
			WithField("rooms", "required").
			WithDetail("validRoomTypes", domain.RoomTypes)
	}
	if len(in) > domain.MaxRooms {
		return nil, domain.NewValidationError(fmt.Sprintf("Maximum %d room types allowed", domain.MaxRooms)).
			WithField("rooms", "too many").
			WithDetail("roomsCount", len(in))
	}
	rooms := make([]domain.Room, 0, len(in))
	var invalid []rawRoom
	for _, r := range in {
		p, ok := roomPrice(r.Price)
		if !ok || !domain.IsRoomType(r.Type) {
			invalid = append(invalid, r)
			continue
		}
		rooms = append(rooms, domain.Room{Type: r.Type, Price: p})
	}
	if len(invalid) > 0 {
		return nil, domain.NewValidationError("Invalid room data").
			WithField("rooms", "type must be a known room type and price a non-negative number").
			WithDetail("validRoomTypes", domain.RoomTypes).
			WithDetail("invalidRooms", invalid)
	}
	return rooms, nil
}

func roomPrice(v any) (float64, bool) {
	var f float64
	switch p := v.(type) {
	case float64:
		f = p
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

func parseAmenities(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "[]"
	}
	var in []string
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, domain.NewValidationError("Invalid amenities format").
			WithField("amenities", "must be an array of strings").
			WithDetail("error", err.Error())
	}
	out := make([]string, 0, len(in))
	var invalid []string
	seen := map[string]bool{}
	for _, a := range in {
		if !domain.IsAmenity(a) {
			invalid = append(invalid, a)
			continue
		}
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	if len(invalid) > 0 {
		return nil, domain.NewValidationError("Invalid amenities").
			WithField("amenities", "unknown amenity").
			WithDetail("validAmenities", domain.Amenities).
			WithDetail("invalidAmenities", invalid)
	}
	if len(out) > domain.MaxAmenities {
		return nil, domain.NewValidationError(fmt.Sprintf("Maximum %d amenities allowed", domain.MaxAmenities)).
			WithField("amenities", "too many").
			WithDetail("amenitiesCount", len(out))
	}
	return out, nil
}

// ---- location and user payloads ----

type LocationInput struct {
	State string `json:"state" validate:"required"`
	City  string `json:"city" validate:"required"`
}

func (in *LocationInput) Validate() error {
	in.State, in.City = strings.TrimSpace(in.State), strings.TrimSpace(in.City)
	return checkStruct(in, "Both state and city are required")
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,bcrypt"`
	AdminKey string `json:"adminKey"`
}

func (in *RegisterInput) Validate() error {
	in.Name, in.Email = strings.TrimSpace(in.Name), normalizeEmail(in.Email)
	return checkStruct(in, "Please provide name, email, and password")
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) Validate() error {
	in.Email = normalizeEmail(in.Email)
	return checkStruct(in, "Please provide email and password")
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,bcrypt"`
	Role     string `json:"role" validate:"oneof=user admin"`
}

func (in *CreateUserInput) Validate() error {
	in.Name, in.Email = strings.TrimSpace(in.Name), normalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	return checkStruct(in, "Please provide name, email, and password")
}

type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=6,bcrypt"`
	Role     *string `json:"role" validate:"omitnil,oneof=user admin"`
}

// Validate normalizes present fields. An empty password means "unchanged".
func (in *UpdateUserInput) Validate() error {
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return domain.NewValidationError("name cannot be empty").WithField("name", "required")
		}
		in.Name = &n
	}
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	if in.Password != nil && *in.Password == "" {
		in.Password = nil
	}
	return checkStruct(in, "")
}

type PasswordChangeInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,bcrypt"`
}

func (in PasswordChangeInput) Validate() error {
	return checkStruct(in, "Please provide current and new password")
}

type PasswordResetInput struct {
	NewPassword string `json:"newPassword" validate:"min=6,bcrypt"`
}

func (in PasswordResetInput) Validate() error { return checkStruct(in, "") }

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
