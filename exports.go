package alma

import (
	"context"
	"net/http"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/entities"
)

// ExportsEndpoint groups the data export calls.
type ExportsEndpoint struct{ endpoint }

// Create starts an export of the given type, e.g. "payments" or "accounting".
// params carries extra export options such as start and end timestamps.
func (e *ExportsEndpoint) Create(ctx context.Context, exportType string, params map[string]any, runOpts ...RunOption) (entities.Export, error) {
	if err := requireID("type", exportType); err != nil {
		return entities.Export{}, err
	}
	body := make(map[string]any, len(params)+1)
	for k, v := range params {
		body[k] = v
	}
	body["type"] = exportType

	req, err := e.request(consts.DataExportsPath)
	if err != nil {
		return entities.Export{}, err
	}
	req.SetBody(body)
	if e.skip(runOpts, http.MethodPost, req) {
		return entities.Export{}, nil
	}
	resp, err := req.Post(ctx)
	if err != nil {
		return entities.Export{}, err
	}
	return decodeObject(resp, entities.NewExport)
}

func (e *ExportsEndpoint) Fetch(ctx context.Context, exportID string, runOpts ...RunOption) (entities.Export, error) {
	if err := requireID("export_id", exportID); err != nil {
		return entities.Export{}, err
	}
	req, err := e.request(resourcePath(consts.DataExportsPath, exportID))
	if err != nil {
		return entities.Export{}, err
	}
	if e.skip(runOpts, http.MethodGet, req) {
		return entities.Export{}, nil
	}
	resp, err := req.Get(ctx)
	if err != nil {
		return entities.Export{}, err
	}
	return decodeObject(resp, entities.NewExport)
}

// FetchFile downloads the export file in the given format.
func (e *ExportsEndpoint) FetchFile(ctx context.Context, exportID string, format consts.ExportFormat, runOpts ...RunOption) ([]byte, error) {
	ve := &ValidationError{}
	checkID(ve, "export_id", exportID)
	switch format {
	case consts.ExportFormatCSV, consts.ExportFormatXLSX, consts.ExportFormatJSON:
	default:
		ve.Add("format", "must be one of csv, xlsx, json")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	req, err := e.request(resourcePath(consts.DataExportsPath, exportID))
	if err != nil {
		return nil, err
	}
	req.SetParam("format", string(format))
	if e.skip(runOpts, http.MethodGet, req) {
		return nil, nil
	}
	resp, err := req.Get(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
