/*-------------------------------------------------------------------------
 *
 * validator.go
 *    JSON Schema validation for tool arguments
 *
 * Validates decoded tool arguments against the parameters schema each
 * handler advertises, before the handler runs. Covers the subset of
 * JSON Schema the tool definitions actually use: types, required
 * fields, enums, string and numeric bounds, nested arrays and
 * objects, and a few string formats.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/tools/validator.go
 *
 *-------------------------------------------------------------------------
 */

package tools

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"
)

/* ValidateArgs validates arguments against a JSON Schema */
func ValidateArgs(args map[string]interface{}, schema map[string]interface{}) error {
	if schema == nil {
		return fmt.Errorf("invalid schema: schema is nil")
	}

	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		if len(args) > 0 {
			return fmt.Errorf("invalid schema: missing properties but arguments provided")
		}
		return nil
	}

	if required, ok := schema["required"].([]interface{}); ok {
		for _, req := range required {
			name, ok := req.(string)
			if !ok {
				continue
			}
			if _, exists := args[name]; !exists {
				return fmt.Errorf("missing required field: %s", name)
			}
		}
	}

	for key, value := range args {
		propSchema, exists := properties[key]
		if !exists {
			if additional, ok := schema["additionalProperties"].(bool); ok && !additional {
				return fmt.Errorf("unknown field: %s", key)
			}
			continue
		}

		propMap, ok := propSchema.(map[string]interface{})
		if !ok {
			return fmt.Errorf("invalid schema for field %s: property definition must be an object", key)
		}

		if err := validateProperty(key, value, propMap); err != nil {
			return fmt.Errorf("validation failed for field '%s': %w", key, err)
		}
	}

	return nil
}

/* validateProperty validates a single value against its property schema */
func validateProperty(fieldName string, value interface{}, schema map[string]interface{}) error {
	if value == nil {
		if nullable, ok := schema["nullable"].(bool); ok && nullable {
			return nil
		}
		return fmt.Errorf("field cannot be null")
	}

	expectedType, _ := schema["type"].(string)
	if expectedType != "" {
		if err := validateType(value, expectedType); err != nil {
			return err
		}
	}

	switch expectedType {
	case "string":
		return validateString(value.(string), schema)
	case "number", "integer":
		return validateNumber(value, schema)
	case "array":
		return validateArray(fieldName, value, schema)
	case "object":
		return validateObject(fieldName, value, schema)
	}

	return nil
}

func validateType(value interface{}, expectedType string) error {
	kind := reflect.TypeOf(value).Kind()

	switch expectedType {
	case "string":
		if kind != reflect.String {
			return fmt.Errorf("expected string, got %v", kind)
		}
	case "number":
		if kind != reflect.Float64 && kind != reflect.Int && kind != reflect.Int64 {
			return fmt.Errorf("expected number, got %v", kind)
		}
	case "integer":
		/* JSON decoding yields float64; accept whole numbers */
		if kind == reflect.Float64 {
			if f := value.(float64); f != math.Trunc(f) {
				return fmt.Errorf("expected integer, got fractional number")
			}
			return nil
		}
		if kind != reflect.Int && kind != reflect.Int64 {
			return fmt.Errorf("expected integer, got %v", kind)
		}
	case "boolean":
		if kind != reflect.Bool {
			return fmt.Errorf("expected boolean, got %v", kind)
		}
	case "array":
		if kind != reflect.Slice && kind != reflect.Array {
			return fmt.Errorf("expected array, got %v", kind)
		}
	case "object":
		if kind != reflect.Map {
			return fmt.Errorf("expected object, got %v", kind)
		}
	}

	return nil
}

func validateString(str string, schema map[string]interface{}) error {
	if minLen, ok := schema["minLength"].(float64); ok && float64(len(str)) < minLen {
		return fmt.Errorf("string length %d is less than minimum %d", len(str), int(minLen))
	}
	if maxLen, ok := schema["maxLength"].(float64); ok && float64(len(str)) > maxLen {
		return fmt.Errorf("string length %d exceeds maximum %d", len(str), int(maxLen))
	}

	if pattern, ok := schema["pattern"].(string); ok {
		matched, err := regexp.MatchString(pattern, str)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("string does not match required pattern: %s", pattern)
		}
	}

	if enum, ok := schema["enum"].([]interface{}); ok {
		for _, candidate := range enum {
			if s, ok := candidate.(string); ok && s == str {
				return nil
			}
		}
		return fmt.Errorf("value '%s' is not in allowed enum values", str)
	}

	if format, ok := schema["format"].(string); ok {
		return validateFormat(str, format)
	}

	return nil
}

func validateNumber(value interface{}, schema map[string]interface{}) error {
	var num float64
	switch v := value.(type) {
	case float64:
		num = v
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	default:
		return fmt.Errorf("value is not a number")
	}

	if min, ok := schema["minimum"].(float64); ok && num < min {
		return fmt.Errorf("number %v is less than minimum %v", num, min)
	}
	if max, ok := schema["maximum"].(float64); ok && num > max {
		return fmt.Errorf("number %v exceeds maximum %v", num, max)
	}

	return nil
}

func validateArray(fieldName string, value interface{}, schema map[string]interface{}) error {
	val := reflect.ValueOf(value)
	length := val.Len()

	if minItems, ok := schema["minItems"].(float64); ok && float64(length) < minItems {
		return fmt.Errorf("array length %d is less than minimum %d", length, int(minItems))
	}
	if maxItems, ok := schema["maxItems"].(float64); ok && float64(length) > maxItems {
		return fmt.Errorf("array length %d exceeds maximum %d", length, int(maxItems))
	}

	if itemsSchema, ok := schema["items"].(map[string]interface{}); ok {
		for i := 0; i < length; i++ {
			item := val.Index(i).Interface()
			if err := validateProperty(fmt.Sprintf("%s[%d]", fieldName, i), item, itemsSchema); err != nil {
				return fmt.Errorf("array item at index %d: %w", i, err)
			}
		}
	}

	return nil
}

func validateObject(fieldName string, value interface{}, schema map[string]interface{}) error {
	nested, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("value is not an object")
	}

	if required, ok := schema["required"].([]interface{}); ok {
		for _, req := range required {
			name, ok := req.(string)
			if !ok {
				continue
			}
			if _, exists := nested[name]; !exists {
				return fmt.Errorf("missing required field in object: %s", name)
			}
		}
	}

	properties, _ := schema["properties"].(map[string]interface{})
	for key, propValue := range nested {
		propSchema, exists := properties[key]
		if !exists {
			if additional, ok := schema["additionalProperties"].(bool); ok && !additional {
				return fmt.Errorf("unknown field in object: %s", key)
			}
			continue
		}
		propMap, ok := propSchema.(map[string]interface{})
		if !ok {
			continue
		}
		if err := validateProperty(fmt.Sprintf("%s.%s", fieldName, key), propValue, propMap); err != nil {
			return err
		}
	}

	return nil
}

func validateFormat(str, format string) error {
	switch format {
	case "email":
		emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
		if !emailRegex.MatchString(str) {
			return fmt.Errorf("string is not a valid email address")
		}
	case "date":
		if _, err := time.Parse("2006-01-02", str); err != nil {
			return fmt.Errorf("string is not a valid date")
		}
	case "date-time":
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			return fmt.Errorf("string is not a valid date-time (RFC3339)")
		}
	case "uuid":
		uuidRegex := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
		if !uuidRegex.MatchString(strings.ToLower(str)) {
			return fmt.Errorf("string is not a valid UUID")
		}
	}
	return nil
}
