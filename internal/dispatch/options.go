package dispatch

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"correioszpl/internal/config"
	"correioszpl/internal/failures"
	"correioszpl/internal/spool"
	"correioszpl/internal/zpl"
)

// Printer transports.
const (
	TypeNetwork = "network"
	TypeSpool   = "spool"
)

const (
	defaultWorkDir   = "./tmp"
	defaultPort      = 9100
	defaultTimeoutMS = 30000
)

// Options select where and how a label is printed. Field names match the
// JSON request contract.
type Options struct {
	WorkDir        string              `json:"workDir"`
	DarknessLevel  int                 `json:"darknessLevel" validate:"gte=0,lte=30"`
	PrinterType    string              `json:"printerType" validate:"omitempty,oneof=network spool"`
	PrinterAddress string              `json:"printerAddress" validate:"required_if=PrinterType network"`
	PrinterPort    int                 `json:"printerPort" validate:"gte=0,lte=65535"`
	Timeout        int                 `json:"timeout" validate:"gte=0"`
	PrinterName    string              `json:"printerName" validate:"required_unless=PrinterType network"`
	CustomLogoZPL  string              `json:"customLogoZpl"`
	Submit         spool.SubmitOptions `json:"submit"`
}

// OptionsFromConfig seeds request options from the configured defaults.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}.withDefaults()
	}
	return Options{
		WorkDir:        cfg.Paths.WorkDir,
		DarknessLevel:  cfg.Label.DarknessLevel,
		PrinterType:    cfg.Printer.Type,
		PrinterAddress: cfg.Printer.Address,
		PrinterPort:    cfg.Printer.Port,
		Timeout:        cfg.Printer.TimeoutMS,
		PrinterName:    cfg.Printer.Name,
	}.withDefaults()
}

// withDefaults fills unset fields. An unset printer type means spool.
func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.WorkDir) == "" {
		o.WorkDir = defaultWorkDir
	}
	if o.DarknessLevel == 0 {
		o.DarknessLevel = zpl.DefaultDarkness
	}
	if o.PrinterType == "" {
		o.PrinterType = TypeSpool
	}
	if o.PrinterPort == 0 {
		o.PrinterPort = defaultPort
	}
	if o.Timeout == 0 {
		o.Timeout = defaultTimeoutMS
	}
	return o
}

// TimeoutDuration returns the network timeout.
func (o Options) TimeoutDuration() time.Duration {
	return time.Duration(o.Timeout) * time.Millisecond
}

// Validate checks the options after defaults are applied. The first failing
// field is reported by its JSON name.
func (o Options) Validate() error {
	return validationError(validate.Struct(o))
}

func (o Options) validateRender() error {
	return validationError(validate.StructPartial(o, "WorkDir", "DarknessLevel"))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return failures.Validation("options", fe.Field()+" "+validationMessage(fe))
	}
	return failures.Wrap(failures.ErrValidation, "options", "validate", "", err)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required_if":
		return "is required for network printers"
	case "required_unless":
		return "is required for spool printers"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
