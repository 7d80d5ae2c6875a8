package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"qaconv/internal/format"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a normalized config for correctness and an existing case directory.
func Validate(cfg *Config) error {
	var issues issueList

	validateStruct(cfg, issues.add)
	validateFormats(cfg, issues.add)
	validateThresholds(cfg, issues.add)
	validateCaseDir(cfg, issues.add)

	return issues.err()
}

func validateStruct(cfg *Config, add issueAdder) {
	err := structValidator.Struct(cfg)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		add("config", err.Error())
		return
	}
	for _, fieldErr := range fieldErrs {
		add(fieldPath(fieldErr.Namespace()), describeTag(fieldErr))
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describeTag(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "eq":
		return fmt.Sprintf("unsupported value %v (want %s)", fieldErr.Value(), fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be >= %s", fieldErr.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fieldErr.Param())
	default:
		return fmt.Sprintf("failed %q check", fieldErr.Tag())
	}
}

func validateFormats(cfg *Config, add issueAdder) {
	for i, value := range cfg.Formats {
		if strings.TrimSpace(value) == "" {
			continue
		}
		if _, err := format.ParseFormat(value); err != nil {
			add(fmt.Sprintf("formats[%d]", i), err.Error())
		}
	}
}

func validateThresholds(cfg *Config, add issueAdder) {
	qaCfg := cfg.QA
	if qaCfg.MaxScore > 0 && qaCfg.PerfectScore > qaCfg.MaxScore {
		add("qa.perfect_score", fmt.Sprintf("must not exceed max_score %d", qaCfg.MaxScore))
	}
	top := qaCfg.PerfectScore
	if top == 0 {
		top = qaCfg.MaxScore
	}
	if top > 0 && qaCfg.GoodScore > top {
		add("qa.good_score", fmt.Sprintf("must not exceed the perfect score %d", top))
	}
}

func validateCaseDir(cfg *Config, add issueAdder) {
	if cfg.BaseDir == "" || cfg.Dataset == "" || cfg.Task == "" {
		return
	}
	dir := cfg.CaseDir()
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			add("task", fmt.Sprintf("case directory %q not found", dir))
			return
		}
		add("task", fmt.Sprintf("stat case directory %q: %v", dir, err))
		return
	}
	if !info.IsDir() {
		add("task", fmt.Sprintf("case path %q is not a directory", dir))
	}
}
