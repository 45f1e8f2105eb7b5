package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/matchbox/internal/core/model"
)

type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error)
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}

// SeasonStore is the source of season snapshots. Records are owned by the
// season editing tools; the engine only reads them.
type SeasonStore interface {
	LoadSeason(ctx context.Context, id model.ID) (*model.Season, error)
	SaveSeason(ctx context.Context, season *model.Season) error
}
