package model

import (
	"fmt"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateProfile validates a generated profile map against the profile
// schema at schemaPath before it is handed to the editor screen.
func ValidateProfile(schemaPath string, m map[string]interface{}) error {
	// Use absolute canonical file:// path for the schema so loaders on all
	// platforms resolve file references correctly.
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return err
	}
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("profile validation failed: %s", msgs)
}
