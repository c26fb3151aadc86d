// Package validation checks registration and login input before it reaches storage.
// Field rules are expressed as go-playground/validator tags; uniqueness is checked
// against the CredentialStore read side.
package validation

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/errors"
	"identity/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Field names used as FieldErrors keys.
const (
	FieldEmail           = "email"
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldPasswordConfirm = "password_confirm"
	FieldProfile         = "profile"
	FieldPhoneNumber     = "phone_number"
	FieldRole            = "role"
	FieldDateOfBirth     = "date_of_birth"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt ignores input past this length
	minPhoneDigits    = 10
	maxPhoneDigits    = 15
	dateLayout        = "2006-01-02"
)

// Messages returned to clients.
const (
	MsgRequired           = "This field is required."
	MsgInvalidEmail       = "Enter a valid email address."
	MsgEmailTooLong       = "Ensure this field has no more than 254 characters."
	MsgEmailTaken         = "An account with this email already exists."
	MsgUsernameTooShort   = "Username must be at least 3 characters long."
	MsgUsernameTooLong    = "Ensure this field has no more than 150 characters."
	MsgUsernameCharset    = "Username can only contain letters, numbers, and underscores."
	MsgUsernameTaken      = "This username is already taken."
	MsgPasswordTooShort   = "Ensure this field has at least 8 characters."
	MsgPasswordTooLong    = "Password must be at most 72 bytes long."
	MsgPasswordMismatch   = "Passwords do not match."
	MsgPhoneCharset       = "Invalid phone number format. Use only digits, spaces, dashes, parentheses, and plus signs."
	MsgPhoneTooShort      = "Phone number must contain at least 10 digits."
	MsgPhoneTooLong       = "Phone number must contain at most 15 digits."
	MsgPhoneTaken         = "This phone number is already registered."
	MsgInvalidRole        = "Invalid role. Must be one of: student, vendor, admin"
	MsgInvalidDate        = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgDateInFuture       = "Date of birth cannot be in the future."
	MsgLoginFieldsMissing = "Both email and password are required."
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	phonePattern    = regexp.MustCompile(`^[0-9 ()+\-]+$`)
)

// Per-field validator tags and the message reported for each failing tag.
var (
	emailRule = rule{
		tags:     "required,email,max=254",
		messages: map[string]string{"required": MsgRequired, "email": MsgInvalidEmail, "max": MsgEmailTooLong},
	}
	usernameRule = rule{
		tags:     "required,min=3,max=150,username",
		messages: map[string]string{"required": MsgRequired, "min": MsgUsernameTooShort, "max": MsgUsernameTooLong, "username": MsgUsernameCharset},
	}
	phoneRule = rule{
		tags:     "required,phonechars",
		messages: map[string]string{"required": MsgRequired, "phonechars": MsgPhoneCharset},
	}
	roleRule = rule{
		tags:     "oneof=" + strings.Join(roleNames(), " "),
		messages: map[string]string{"oneof": MsgInvalidRole},
	}
	dateRule = rule{
		tags:     "datetime=" + dateLayout,
		messages: map[string]string{"datetime": MsgInvalidDate},
	}
)

type rule struct {
	tags     string
	messages map[string]string
}

// Registration is the normalized result of a successful registration check.
type Registration struct {
	Email    string
	Username string
	Password string
	Profile  *entity.Profile
}

// Credentials is the normalized result of a successful login check.
type Credentials struct {
	Email    string
	Password string
}

// Validator runs field rules and uniqueness lookups.
type Validator struct {
	validate *validator.Validate
	finder   repository.AccountFinder
	now      func() time.Time
}

// New creates a Validator whose uniqueness checks go through finder.
func New(finder repository.AccountFinder) *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Registration of static tags only fails on programmer error.
	mustRegister(validate, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(validate, "phonechars", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Validator{
		validate: validate,
		finder:   finder,
		now:      time.Now,
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ValidateRegistration runs every rule and reports all failures at once.
// Field failures come back as ErrValidationFailed carrying the FieldErrors;
// storage failures abort the check.
func (v *Validator) ValidateRegistration(ctx context.Context, input usecase.RegisterInput) (*Registration, error) {
	fieldErrors := domainerrors.FieldErrors{}
	reg := &Registration{Password: input.Password}

	var err error
	if reg.Email, err = v.ValidateEmail(ctx, input.Email); collect(fieldErrors, err) != nil {
		return nil, err
	}
	if reg.Username, err = v.ValidateUsername(ctx, input.Username); collect(fieldErrors, err) != nil {
		return nil, err
	}
	if err = v.ValidatePasswordPair(input.Password, input.PasswordConfirm); collect(fieldErrors, err) != nil {
		return nil, err
	}

	if input.Profile == nil {
		fieldErrors.Add(FieldProfile, MsgRequired)
	} else {
		profile, profileErrors, err := v.validateProfile(ctx, input.Profile)
		if err != nil {
			return nil, err
		}
		fieldErrors.Merge(FieldProfile, profileErrors)
		reg.Profile = profile
	}

	if fieldErrors.HasErrors() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fieldErrors)
	}

	return reg, nil
}

func (v *Validator) validateProfile(ctx context.Context, input *usecase.ProfileInput) (*entity.Profile, domainerrors.FieldErrors, error) {
	fieldErrors := domainerrors.FieldErrors{}
	profile := &entity.Profile{}

	var err error
	if profile.PhoneNumber, err = v.ValidatePhone(ctx, input.PhoneNumber, uuid.Nil); collect(fieldErrors, err) != nil {
		return nil, nil, err
	}
	if profile.Role, err = v.ValidateRole(input.Role); collect(fieldErrors, err) != nil {
		return nil, nil, err
	}
	if profile.DateOfBirth, err = v.ValidateDateOfBirth(input.DateOfBirth); collect(fieldErrors, err) != nil {
		return nil, nil, err
	}

	return profile, fieldErrors, nil
}

// ValidateLogin normalizes login input. Missing values are reported under non_field_errors.
func (v *Validator) ValidateLogin(input usecase.LoginInput) (*Credentials, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domainerrors.FieldErrors{domainerrors.NonFieldErrors: {MsgLoginFieldsMissing}}
	}

	return &Credentials{Email: email, Password: input.Password}, nil
}

// ValidateEmail normalizes raw and checks format and uniqueness.
func (v *Validator) ValidateEmail(ctx context.Context, raw string) (string, error) {
	email := NormalizeEmail(raw)
	if fe := v.check(FieldEmail, email, emailRule); fe != nil {
		return email, fe
	}

	taken, err := v.exists(ctx, func(ctx context.Context) (*entity.Account, error) {
		return v.finder.FindByEmail(ctx, email)
	}, uuid.Nil)
	if err != nil {
		return email, errors.Wrap(err, "failed to check email uniqueness")
	}
	if taken {
		return email, domainerrors.NewFieldError(FieldEmail, MsgEmailTaken)
	}

	return email, nil
}

// ValidateUsername checks length, charset and uniqueness of raw.
func (v *Validator) ValidateUsername(ctx context.Context, raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if fe := v.check(FieldUsername, username, usernameRule); fe != nil {
		return username, fe
	}

	taken, err := v.exists(ctx, func(ctx context.Context) (*entity.Account, error) {
		return v.finder.FindByUsername(ctx, username)
	}, uuid.Nil)
	if err != nil {
		return username, errors.Wrap(err, "failed to check username uniqueness")
	}
	if taken {
		return username, domainerrors.NewFieldError(FieldUsername, MsgUsernameTaken)
	}

	return username, nil
}

// ValidatePasswordPair checks password length and that the confirmation matches.
// The returned error, if any, is a FieldErrors value.
func (v *Validator) ValidatePasswordPair(password, confirm string) error {
	fieldErrors := domainerrors.FieldErrors{}

	switch {
	case password == "":
		fieldErrors.Add(FieldPassword, MsgRequired)
	case len([]rune(password)) < minPasswordLength:
		fieldErrors.Add(FieldPassword, MsgPasswordTooShort)
	case len(password) > maxPasswordBytes:
		fieldErrors.Add(FieldPassword, MsgPasswordTooLong)
	}

	if confirm == "" {
		fieldErrors.Add(FieldPasswordConfirm, MsgRequired)
	} else if password != "" && password != confirm {
		fieldErrors.Add(FieldPasswordConfirm, MsgPasswordMismatch)
	}

	if fieldErrors.HasErrors() {
		return fieldErrors
	}

	return nil
}

// ValidatePhone checks raw and returns its canonical digits-only form.
// An account with id excludeID may already own the number.
func (v *Validator) ValidatePhone(ctx context.Context, raw string, excludeID uuid.UUID) (string, error) {
	phone := strings.TrimSpace(raw)
	if fe := v.check(FieldPhoneNumber, phone, phoneRule); fe != nil {
		return "", fe
	}

	canonical := CanonicalPhone(phone)
	switch {
	case len(canonical) < minPhoneDigits:
		return canonical, domainerrors.NewFieldError(FieldPhoneNumber, MsgPhoneTooShort)
	case len(canonical) > maxPhoneDigits:
		return canonical, domainerrors.NewFieldError(FieldPhoneNumber, MsgPhoneTooLong)
	}

	taken, err := v.exists(ctx, func(ctx context.Context) (*entity.Account, error) {
		return v.finder.FindByPhone(ctx, canonical)
	}, excludeID)
	if err != nil {
		return canonical, errors.Wrap(err, "failed to check phone uniqueness")
	}
	if taken {
		return canonical, domainerrors.NewFieldError(FieldPhoneNumber, MsgPhoneTaken)
	}

	return canonical, nil
}

// ValidateRole maps raw to a Role. Empty input selects the default role.
func (v *Validator) ValidateRole(raw string) (entity.Role, error) {
	role := strings.TrimSpace(raw)
	if role == "" {
		return entity.RoleStudent, nil
	}
	if fe := v.check(FieldRole, role, roleRule); fe != nil {
		return "", fe
	}

	return entity.Role(role), nil
}

// ValidateDateOfBirth parses an optional YYYY-MM-DD date that must not lie in the future.
func (v *Validator) ValidateDateOfBirth(raw string) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	if fe := v.check(FieldDateOfBirth, value, dateRule); fe != nil {
		return nil, fe
	}

	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, domainerrors.NewFieldError(FieldDateOfBirth, MsgInvalidDate)
	}

	now := v.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return nil, domainerrors.NewFieldError(FieldDateOfBirth, MsgDateInFuture)
	}

	return &date, nil
}

// check runs the tag rule against value and converts the first failure to a FieldError.
func (v *Validator) check(field, value string, r rule) *domainerrors.FieldError {
	err := v.validate.Var(value, r.tags)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		if msg, ok := r.messages[validationErrors[0].Tag()]; ok {
			return domainerrors.NewFieldError(field, msg)
		}
	}

	return domainerrors.NewFieldError(field, err.Error())
}

// exists reports whether lookup finds an account other than excludeID.
func (v *Validator) exists(ctx context.Context, lookup func(context.Context) (*entity.Account, error), excludeID uuid.UUID) (bool, error) {
	account, err := lookup(ctx)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return excludeID == uuid.Nil || account.ID != excludeID, nil
}

// collect records field-level failures in fieldErrors and returns any other error.
func collect(fieldErrors domainerrors.FieldErrors, err error) error {
	if err == nil {
		return nil
	}

	if fe, ok := errors.AsType[*domainerrors.FieldError](err); ok {
		fieldErrors.AddError(fe)

		return nil
	}
	if fes, ok := errors.AsType[domainerrors.FieldErrors](err); ok {
		fieldErrors.Merge("", fes)

		return nil
	}

	return err
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CanonicalPhone keeps only the digits of a phone number.
func CanonicalPhone(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}

		return -1
	}, raw)
}

func roleNames() []string {
	roles := entity.AllRoles()
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}

	return names
}
