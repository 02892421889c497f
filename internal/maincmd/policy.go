package maincmd

import (
	"github.com/nova-lang/nova/internal/security"
)

// resolvePolicy turns the --policy flag's value into a Policy: empty means
// Standard, one of the three preset names resolves via PresetByName, and
// anything else is tried as a YAML policy file path. Either way, any
// NOVA_ALLOW_*/NOVA_MAX_* environment variable present then overrides the
// matching field (security.FromEnv), so a deployment can punch through a
// single capability without maintaining its own policy file.
func resolvePolicy(name string) (*security.Policy, error) {
	var p *security.Policy
	switch name {
	case "", "strict", "standard", "unrestricted":
		p = security.PresetByName(name)
	default:
		var err error
		p, err = security.LoadFile(name)
		if err != nil {
			return nil, err
		}
	}
	if err := security.FromEnv(p); err != nil {
		return nil, err
	}
	return p, nil
}
