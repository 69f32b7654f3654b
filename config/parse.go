package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const tagPrefix = "viper"

var durationType = reflect.TypeOf(time.Duration(0))

// populateCheckConfig is used to parse config read through viper
func populateCheckConfig(config *CheckConfig) (*CheckConfig, error) {
	err := recursivelySet(reflect.ValueOf(config), "")
	if err != nil {
		return nil, err
	}

	return config, nil
}

// recursivelySet is used to recursively set conf read from
// files to golang structs. Since nested values are accessed using periods
// we need to recursively parse the values
func recursivelySet(val reflect.Value, prefix string) error {
	if val.Kind() != reflect.Ptr {
		return errors.New("config target must be a pointer")
	}

	// dereference
	val = reflect.Indirect(val)
	if val.Kind() != reflect.Struct {
		return errors.New("config target must point to a struct")
	}

	// grab the type for this instance
	vType := reflect.TypeOf(val.Interface())

	// go through child fields
	for i := 0; i < val.NumField(); i++ {
		thisField := val.Field(i)
		thisType := vType.Field(i)
		tags := getTags(thisType)
		// try to fetch value for each key using multiple tags
		for _, tag := range tags {
			key := prefix + tag
			if thisField.Type() == durationType {
				raw := viper.Get(key)
				// skip the update if tag is not set in viper
				if raw == nil {
					continue
				}
				configVal, err := cast.ToDurationE(raw)
				if err != nil {
					return invalidValue(key, raw)
				}
				if configVal == 0 && thisField.Int() != 0 {
					continue
				}
				thisField.SetInt(int64(configVal))
				continue
			}
			switch thisField.Kind() {
			case reflect.Struct:
				if err := recursivelySet(thisField.Addr(), key+"."); err != nil {
					return err
				}
			case reflect.Int:
				fallthrough
			case reflect.Int32:
				fallthrough
			case reflect.Int64:
				raw := viper.Get(key)
				if raw == nil {
					continue
				}
				configVal, err := cast.ToInt64E(raw)
				if err != nil {
					return invalidValue(key, raw)
				}
				// skip the update if tag is not set in viper
				if configVal == 0 && thisField.Int() != 0 {
					continue
				}
				thisField.SetInt(configVal)
			case reflect.Float64:
				raw := viper.Get(key)
				if raw == nil {
					continue
				}
				configVal, err := cast.ToFloat64E(raw)
				if err != nil {
					return invalidValue(key, raw)
				}
				// skip the update if tag is not set in viper
				if configVal == 0 && thisField.Float() != 0 {
					continue
				}
				thisField.SetFloat(configVal)
			case reflect.String:
				// skip the update if tag is not set in viper
				if viper.GetString(key) == "" && thisField.String() != "" {
					continue
				}
				thisField.SetString(viper.GetString(key))
			case reflect.Bool:
				// skip the update if tag is not set in viper
				if !viper.GetBool(key) && thisField.Bool() {
					continue
				}
				thisField.SetBool(viper.GetBool(key))
			case reflect.Map:
				continue
			default:
				return fmt.Errorf("unexpected type detected ~ aborting: %s", thisField.Kind())
			}
		}
	}

	return nil
}

// invalidValue reports a value that cannot be converted to the field type
func invalidValue(key string, raw interface{}) error {
	return errs.ErrInvalidConfig([]string{fmt.Sprintf("%s has an invalid value %q", key, fmt.Sprint(raw))})
}

func getTags(field reflect.StructField) []string {
	// check if maybe we have a special magic tag
	tag := field.Tag
	values := []string{}
	if tag != "" {
		for _, prefix := range []string{tagPrefix, "yaml", "json", "env", "mapstructure"} {
			if v := tag.Get(prefix); v != "" {
				values = append(values, v)
			}
		}
		return values
	}

	return []string{field.Name}
}
