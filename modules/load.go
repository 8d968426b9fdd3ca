package modules

import (
	"github.com/lemu/seamless-sea-sub000/modules/chartering"
	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/configuration"
)

func BuiltInModules(opts *chartering.ModuleOptions) []application.Module {
	if opts.GlobalPinnedFilters == nil {
		opts.GlobalPinnedFilters = configuration.Use().Grid.GlobalPinnedFilters
	}
	return []application.Module{
		chartering.NewModule(opts),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
