package states

import (
	"github.com/cockroachdb/errors"

	"github.com/treeconf/treeconf/configs"
	"github.com/treeconf/treeconf/framework"
)

// Start returns the first state, processing the lighting tree named by the
// config Tree item or TREECONF_TREE (overridden by tree when not empty).
func Start(config *configs.Config, tree string, opts ...StateOption) (State, error) {
	root, err := StartTree(config, tree)
	if err != nil {
		return nil, err
	}

	base := []StateOption{
		WithFormat(framework.NameFormat(config.GetGlobalOutputFormat())),
		WithConfig(config),
		WithStateLogger(config.Logger()),
	}
	return NewCmdState(root, append(base, opts...)...), nil
}

// StartTree builds the lighting tree selected by tree or by the config.
func StartTree(config *configs.Config, tree string) (*framework.Token, error) {
	if tree == "" {
		tree = config.GetTree()
	}
	root, err := NewLighting(nil).Tree(tree)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build start tree")
	}
	return root, nil
}
