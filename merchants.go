package alma

import (
	"context"
	"net/http"

	"github.com/alma/alma-go-client/consts"
	"github.com/alma/alma-go-client/entities"
)

// MerchantsEndpoint groups the merchant account calls.
type MerchantsEndpoint struct{ endpoint }

// Me returns the merchant owning the credentials. extended selects the
// extended-data variant, which adds fee plans and eligibility settings.
func (e *MerchantsEndpoint) Me(ctx context.Context, extended bool, runOpts ...RunOption) (entities.Merchant, error) {
	p := consts.MePath
	if extended {
		p = consts.ExtendedMePath
	}
	return e.get(ctx, p, runOpts)
}

// Fetch returns the merchant with the given id.
func (e *MerchantsEndpoint) Fetch(ctx context.Context, merchantID string, runOpts ...RunOption) (entities.Merchant, error) {
	if err := requireID("merchant_id", merchantID); err != nil {
		return entities.Merchant{}, err
	}
	return e.get(ctx, resourcePath(consts.MerchantsPath, merchantID), runOpts)
}

func (e *MerchantsEndpoint) get(ctx context.Context, p string, runOpts []RunOption) (entities.Merchant, error) {
	req, err := e.request(p)
	if err != nil {
		return entities.Merchant{}, err
	}
	if e.skip(runOpts, http.MethodGet, req) {
		return entities.Merchant{}, nil
	}
	resp, err := req.Get(ctx)
	if err != nil {
		return entities.Merchant{}, err
	}
	return decodeObject(resp, entities.NewMerchant)
}
