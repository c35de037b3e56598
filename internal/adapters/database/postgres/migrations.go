package postgres

import (
	"github.com/tapfolio/tapfolio/internal/domain/entity"
)

var Migrations = []interface{}{
	&entity.Card{},
}
