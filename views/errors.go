package views

import (
	"errors"

	"github.com/bluecarbon/mrv-dashboard/api"
)

func isApplicationError(err error) bool {
	var apiErr *api.APIError
	return errors.As(err, &apiErr)
}
