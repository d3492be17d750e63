package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"bouncebook/pkg/logger"
	"bouncebook/pkg/model"
)

var wallClockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CatalogValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCatalogValidator(log *logger.Logger) *CatalogValidator {
	v := validator.New()

	if err := v.RegisterValidation("valid_wall_clock", validateWallClock); err != nil {
		log.Fatal("Failed to register 'valid_wall_clock' validator", "error", err)
	}

	log.Info("Catalog validator initialized successfully")

	return &CatalogValidator{
		validate: v,
		logger:   log,
	}
}

func validateWallClock(fl validator.FieldLevel) bool {
	return wallClockRegex.MatchString(fl.Field().String())
}

func (v *CatalogValidator) ValidateProduct(product *model.Product) error {
	return v.structOnly(product)
}

func (v *CatalogValidator) ValidateProductUpdate(update *model.ProductUpdate) error {
	return v.structOnly(update)
}

func (v *CatalogValidator) ValidateUnit(unit *model.Unit) error {
	return v.structOnly(unit)
}

func (v *CatalogValidator) ValidateUnitUpdate(update *model.UnitUpdate) error {
	return v.structOnly(update)
}

func (v *CatalogValidator) ValidateCrew(crew *model.Crew) error {
	if err := v.structOnly(crew); err != nil {
		return err
	}

	// Zero-padded HH:MM compares correctly as strings.
	for day, window := range crew.Week {
		if window.End <= window.Start {
			return ValidationErrors{
				ValidationError{
					Field:   "Week",
					Message: fmt.Sprintf("%s window must end after it starts (%s - %s)", day, window.Start, window.End),
				},
			}
		}
	}

	return nil
}

func (v *CatalogValidator) ValidateCrewUpdate(update *model.CrewUpdate) error {
	if err := v.structOnly(update); err != nil {
		return err
	}

	if update.Week != nil {
		for day, window := range *update.Week {
			if !wallClockRegex.MatchString(window.Start) || !wallClockRegex.MatchString(window.End) {
				return ValidationErrors{
					ValidationError{
						Field:   "Week",
						Message: fmt.Sprintf("%s window must use HH:MM times", day),
					},
				}
			}
			if window.End <= window.Start {
				return ValidationErrors{
					ValidationError{
						Field:   "Week",
						Message: fmt.Sprintf("%s window must end after it starts (%s - %s)", day, window.Start, window.End),
					},
				}
			}
		}
	}

	return nil
}

func (v *CatalogValidator) ValidateSlot(slot *model.Slot) error {
	if err := v.structOnly(slot); err != nil {
		return err
	}

	if slot.EndLocal <= slot.StartLocal {
		return ValidationErrors{
			ValidationError{
				Field:   "EndLocal",
				Message: "end_local must be after start_local",
			},
		}
	}

	return nil
}

func (v *CatalogValidator) ValidateSlotUpdate(update *model.SlotUpdate) error {
	if err := v.structOnly(update); err != nil {
		return err
	}

	if update.StartLocal != "" && update.EndLocal != "" && update.EndLocal <= update.StartLocal {
		return ValidationErrors{
			ValidationError{
				Field:   "EndLocal",
				Message: "end_local must be after start_local",
			},
		}
	}

	return nil
}

func (v *CatalogValidator) ValidateBlackout(blackout *model.BlackoutDate) error {
	if err := v.structOnly(blackout); err != nil {
		return err
	}

	if blackout.EndDate < blackout.StartDate {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must not precede start_date",
			},
		}
	}

	if blackout.Scope == model.BlackoutGlobal && blackout.RefID != "" {
		return ValidationErrors{
			ValidationError{
				Field:   "RefID",
				Message: "global blackouts must not reference a product or unit",
			},
		}
	}
	if blackout.Scope != model.BlackoutGlobal && blackout.RefID == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "RefID",
				Message: fmt.Sprintf("%s-scoped blackouts require ref_id", blackout.Scope),
			},
		}
	}

	return nil
}

func (v *CatalogValidator) structOnly(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *CatalogValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +17735551234)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "valid_wall_clock":
			message = fmt.Sprintf("%s must be a HH:MM wall-clock time", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must be a %s date", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
