package backend

import (
	"errors"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/proto"
)

// storeError maps a store error onto the error taxonomy. Errors that already
// belong to it are returned as is.
func storeError(err error, resource string, id interface{}) error {
	if err == nil || proto.Kind(err) != "internal" {
		return err
	}
	err = db.WrapError(err)
	if errors.Is(err, db.ErrRecordNotFound) || errors.Is(err, db.ErrForeignKey) {
		return proto.NotFound(resource, id)
	}
	return err
}
