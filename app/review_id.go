package app

import (
	"fmt"
	"strconv"

	"reviews/pkg/httperror"
)

// parseReviewID validates the :review_id path token. Anything that is not an
// integer representation is a 400 with the fixed "Bad Request" message.
func parseReviewID(raw, code string) (int, *httperror.Error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, httperror.BadRequest(code, "Bad Request", nil)
	}

	return id, nil
}

func reviewNotFound(code string, id int) *httperror.Error {
	return httperror.NotFound(code, fmt.Sprintf("Review ID: %d Not Found", id), nil)
}
