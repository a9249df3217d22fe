package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	pkgopenapi "github.com/goliatone/go-oasgen/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Parse decodes the payload, converts the component schemas into the public
// model and reports validation findings as warnings.
func (p *Parser) Parse(ctx context.Context, raw pkgopenapi.RawDocument) (*pkgopenapi.Document, []pkgopenapi.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	location := raw.Location()
	payload := raw.Raw()
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil, pkgopenapi.NewParseError(location, errors.New("document payload is empty"))
	}

	tree, err := decodeTree(payload)
	if err != nil {
		return nil, nil, pkgopenapi.NewParseError(location, fmt.Errorf("decode document: %w", err))
	}
	data, err := toJSON(tree)
	if err != nil {
		return nil, nil, pkgopenapi.NewParseError(location, fmt.Errorf("normalise document: %w", err))
	}

	spec, schemasNode, err := p.decodeSpec(tree, data)
	if err != nil {
		return nil, nil, pkgopenapi.NewParseError(location, err)
	}
	if err := requireInfo(spec.Info); err != nil {
		return nil, nil, pkgopenapi.NewParseError(location, err)
	}

	var diagnostics []pkgopenapi.Diagnostic
	if p.options.Validate {
		diagnostics = validate(ctx, spec)
	}

	doc := pkgopenapi.NewDocument(location)
	doc.OpenAPI = spec.OpenAPI
	doc.Info = pkgopenapi.Info{
		Title:       spec.Info.Title,
		Version:     spec.Info.Version,
		Description: spec.Info.Description,
	}
	if spec.Components != nil && len(spec.Components.Schemas) > 0 {
		doc.Components.Schemas = convertSchemas(spec.Components.Schemas, schemasNode)
	}
	return doc, diagnostics, nil
}

// decodeSpec picks the decoder from the declared version and returns the
// mapping node holding the named schemas for ordering.
func (p *Parser) decodeSpec(tree *yaml.Node, data []byte) (*openapi3.T, *yaml.Node, error) {
	openapiVersion := strings.TrimSpace(scalar(tree, "openapi"))
	swaggerVersion := strings.TrimSpace(scalar(tree, "swagger"))

	switch {
	case strings.HasPrefix(openapiVersion, "3."):
		var spec openapi3.T
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, nil, fmt.Errorf("load document: %w", err)
		}
		return &spec, lookup(tree, "components", "schemas"), nil
	case openapiVersion != "":
		return nil, nil, fmt.Errorf("unsupported openapi version %q", openapiVersion)
	case swaggerVersion == "2.0":
		if !p.options.AllowSwagger2 {
			return nil, nil, errors.New("swagger 2.0 documents are disabled")
		}
		var legacy openapi2.T
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, nil, fmt.Errorf("load swagger document: %w", err)
		}
		spec, err := openapi2conv.ToV3(&legacy)
		if err != nil {
			return nil, nil, fmt.Errorf("convert swagger document: %w", err)
		}
		return spec, lookup(tree, "definitions"), nil
	case swaggerVersion != "":
		return nil, nil, fmt.Errorf("unsupported swagger version %q", swaggerVersion)
	default:
		return nil, nil, errors.New("document declares neither openapi nor swagger version")
	}
}

func requireInfo(info *openapi3.Info) error {
	if info == nil {
		return errors.New("document is missing the info object")
	}
	var missing []string
	if strings.TrimSpace(info.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(info.Version) == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return fmt.Errorf("info object is missing %s", strings.Join(missing, " and "))
	}
	return nil
}
