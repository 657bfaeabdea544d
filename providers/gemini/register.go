package gemini

import (
	"github.com/petal-labs/chatgate/core"
	"github.com/petal-labs/chatgate/providers"
)

func init() {
	providers.Register(providerID, func(cfg core.ProviderConfig) (core.Provider, error) {
		p, err := NewFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}
