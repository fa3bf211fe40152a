package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/companies-api/internal/apperr"
	"github.com/noah-isme/companies-api/internal/models"
)

// DefaultActivityMaxDepth bounds sub-activity expansion when no depth is configured.
const DefaultActivityMaxDepth = 3

// ActivityReader fetches a single activity by name with its children and organizations loaded.
type ActivityReader interface {
	FindByName(ctx context.Context, name string) (*models.Activity, error)
}

// ActivityTreeResolver flattens an activity and its descendants in pre-order.
type ActivityTreeResolver struct {
	logger zerolog.Logger
}

// NewActivityTreeResolver constructs a resolver.
func NewActivityTreeResolver(logger zerolog.Logger) *ActivityTreeResolver {
	return &ActivityTreeResolver{logger: logger.With().Str("component", "activity_tree").Logger()}
}

type treeFrame struct {
	activity models.Activity
	level    int
	fetched  bool
}

// Resolve returns the named activity followed by its descendants, parents before children and
// siblings in fetch order. A node at level L (root = 0) is included when L <= maxDepth.
// found is false when no activity carries the name.
func (r *ActivityTreeResolver) Resolve(ctx context.Context, activities ActivityReader, name string, maxDepth int) ([]models.Activity, bool, error) {
	if err := requireDepth(maxDepth); err != nil {
		return nil, false, err
	}

	root, err := activities.FindByName(ctx, name)
	if err != nil {
		return nil, false, apperr.Dependency("persistence", err)
	}
	if root == nil {
		return nil, false, nil
	}

	visited := make(map[uint]struct{})
	result := make([]models.Activity, 0, 1+len(root.Children))
	stack := []treeFrame{{activity: *root, fetched: true}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[frame.activity.ID]; seen {
			continue
		}

		node := frame.activity
		if !frame.fetched {
			loaded, err := activities.FindByName(ctx, node.Name)
			if err != nil {
				return nil, false, apperr.Dependency("persistence", err)
			}
			if loaded != nil && loaded.ID == node.ID {
				node = *loaded
			} else {
				// Another activity shares the name; keep the child row as listed by its parent.
				r.logger.Debug().Uint("activity_id", node.ID).Str("name", node.Name).Msg("activity lookup by name returned a different row")
			}
		}
		visited[node.ID] = struct{}{}
		result = append(result, node)

		if frame.level >= maxDepth {
			continue
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			child := node.Children[i]
			if _, seen := visited[child.ID]; seen {
				continue
			}
			stack = append(stack, treeFrame{activity: child, level: frame.level + 1})
		}
	}

	return result, true, nil
}
