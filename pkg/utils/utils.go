package utils

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/shopspring/decimal"
)

// GetSchemaFromConfig returns the JSON schema of a YAML config struct. Properties are named
// after the yaml tags and decimals are described as numeric strings.
func GetSchemaFromConfig(config any) (string, error) {
	reflector := jsonschema.Reflector{
		FieldNameTag:   "yaml",
		ExpandedStruct: true,
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(decimal.Decimal{}) {
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^-?[0-9]+(\.[0-9]+)?$`,
				}
			}

			return nil
		},
	}

	jsonSchemaBytes, err := json.MarshalIndent(reflector.Reflect(config), "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to marshal config schema", err)
	}

	return string(jsonSchemaBytes), nil
}
