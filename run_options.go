package alma

import (
	"fmt"

	"github.com/alma/alma-go-client/internal/jsonutil"
	"github.com/alma/alma-go-client/log"
)

// RunOption controls behavior of a single endpoint call.
type RunOption func(*runOptions)

// DryRunHandler receives information about a skipped request.
type DryRunHandler func(method string, url string, payload any)

type runOptions struct {
	dryRun       bool
	dryRunHandle DryRunHandler
}

// DryRun skips the underlying HTTP call. The endpoint method then returns
// zero values and a nil error.
//
// Without a handler the request is written to the client logger at info level.
func DryRun(handler ...DryRunHandler) RunOption {
	return func(o *runOptions) {
		o.dryRun = true
		if len(handler) > 0 && handler[0] != nil {
			o.dryRunHandle = handler[0]
		}
	}
}

func collectRunOptions(opts []RunOption) *runOptions {
	if len(opts) == 0 {
		return nil
	}

	r := &runOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (o *runOptions) isDryRun() bool {
	return o != nil && o.dryRun
}

// shouldDryRun reports whether the call must be skipped, after handing the
// request to the dry run handler.
func shouldDryRun(logger log.Logger, runOpts []RunOption, method string, url string, payload any) bool {
	opts := collectRunOptions(runOpts)
	if !opts.isDryRun() {
		return false
	}
	if opts.dryRunHandle != nil {
		opts.dryRunHandle(method, url, payload)
		return true
	}
	logDryRun(logger, method, url, payload)
	return true
}

func logDryRun(logger log.Logger, method string, url string, payload any) {
	if logger == nil {
		return
	}
	logger.Infof("Dry run: skipping request %s %s", method, url)
	switch v := payload.(type) {
	case nil:
		logger.Infof("Dry run payload: <nil>")
	case []byte:
		logger.Infof("Dry run payload:\n%s", string(v))
	case string:
		logger.Infof("Dry run payload:\n%s", v)
	default:
		logger.Infof("Dry run payload:\n%s", marshalPayload(v))
	}
}

func marshalPayload(v any) string {
	out, err := jsonutil.Marshal(v)
	if err != nil {
		return fmt.Sprintf("unable to marshal %T: %v", v, err)
	}
	return string(out)
}
