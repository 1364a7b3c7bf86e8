package cli

import (
	"golang.org/x/exp/slices"

	"github.com/pbouda/jeffrey/jeffrey/internal/config"
	"github.com/pbouda/jeffrey/jeffrey/pkg/foreach"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/catalog"
)

// ConfigureGroups applies the guardian section of the config to groups.
// Disabled groups are dropped and disabled guards are removed from the catalogs.
func ConfigureGroups(groups []*guardian.Group, conf *config.GuardianConfig) []*guardian.Group {
	if conf == nil {
		return groups
	}

	res := make([]*guardian.Group, 0, len(groups))
	for _, group := range groups {
		override := conf.Groups[group.Name]
		if override.Disabled {
			continue
		}

		configured := *group
		if override.MinimumSamples != nil {
			configured.MinimumSamples = *override.MinimumSamples
		}
		configured.Catalog = foreach.Filter(group.Catalog, func(entry catalog.Entry) bool {
			return !slices.Contains(conf.DisabledGuards, entry.Name)
		})
		if len(conf.Thresholds) > 0 {
			configured.Thresholds = conf.Thresholds
		}
		res = append(res, &configured)
	}
	return res
}
