// Package ai contains the provider-agnostic pieces of the AI integration:
// the response codec, the prompt builder, the caching decorator, and the
// provider factory. Provider adapters live in the openai and gemini
// subpackages.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/errors"
)

var validate = validator.New()

// ExtractPayload strips whatever the model wrapped around the structured
// payload and returns the bare JSON text. Models routinely emit markdown
// code fences or a leading sentence despite being told not to; everything
// outside the outermost JSON value is discarded.
func ExtractPayload(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	// Markdown fence, with or without a language tag.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	objStart := strings.IndexAny(s, "{[")
	if objStart == -1 {
		return "", fmt.Errorf("no JSON value in response")
	}
	var objEnd int
	if s[objStart] == '{' {
		objEnd = strings.LastIndex(s, "}")
	} else {
		objEnd = strings.LastIndex(s, "]")
	}
	if objEnd <= objStart {
		return "", fmt.Errorf("unterminated JSON value in response")
	}
	return s[objStart : objEnd+1], nil
}

// DecodeDetection parses a raw model response into the canonical detection
// schema. Any payload that does not parse or validate is reported as a
// malformed provider response.
func DecodeDetection(raw string) (*outbound.DetectionResult, error) {
	payload, err := ExtractPayload(raw)
	if err != nil {
		return nil, errors.NewMalformedProviderResponseError(err)
	}

	var result outbound.DetectionResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, errors.NewMalformedProviderResponseError(err)
	}
	if err := validate.Struct(&result); err != nil {
		return nil, errors.NewMalformedProviderResponseError(err)
	}
	return &result, nil
}

// recipesEnvelope tolerates both a bare array and the object wrapper some
// models produce.
type recipesEnvelope struct {
	Recipes []outbound.GeneratedRecipe `json:"recipes"`
}

// DecodeRecipes parses a raw model response into the canonical recipe
// generation schema.
func DecodeRecipes(raw string) ([]outbound.GeneratedRecipe, error) {
	payload, err := ExtractPayload(raw)
	if err != nil {
		return nil, errors.NewMalformedProviderResponseError(err)
	}

	var recipes []outbound.GeneratedRecipe
	if strings.HasPrefix(payload, "[") {
		if err := json.Unmarshal([]byte(payload), &recipes); err != nil {
			return nil, errors.NewMalformedProviderResponseError(err)
		}
	} else {
		var envelope recipesEnvelope
		if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
			return nil, errors.NewMalformedProviderResponseError(err)
		}
		recipes = envelope.Recipes
	}

	if len(recipes) == 0 {
		return nil, errors.NewMalformedProviderResponseError(fmt.Errorf("response contained no recipes"))
	}
	for i := range recipes {
		if err := validate.Struct(&recipes[i]); err != nil {
			return nil, errors.NewMalformedProviderResponseError(err)
		}
	}
	return recipes, nil
}
