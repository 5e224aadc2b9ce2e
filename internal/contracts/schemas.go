package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

// Имена контрактов, под которыми схемы регистрируются в init.
const (
	AddFavouriteRequest      = "add-favourite"
	UpdateFavouriteRequest   = "update-favourite"
	ReorderFavouritesRequest = "reorder-favourites"
	SetBookmarkRequest       = "set-bookmark"
)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Регистрируем все схемы как ресурсы, затем компилируем.
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		return compiler.AddResource(path, file)
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	err = fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		key := strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".json")
		compiledSchemas[key] = schema
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and compiling schemas: %v", err)
	}
}

// ValidateJSON проверяет тело запроса против зарегистрированного контракта.
// Возвращает ошибку и при невалидном JSON, и при нарушении схемы.
func ValidateJSON(contract string, data []byte) error {
	schema, ok := compiledSchemas[contract]
	if !ok {
		return fmt.Errorf("unknown contract %q", contract)
	}

	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("contract %q violated: %w", contract, err)
	}
	return nil
}
