package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mfernan/user-tasks-api/internal/constants"
)

// PaginationParams holds offset/limit truncation parameters.
type PaginationParams struct {
	Skip  int
	Limit int
}

// GetPaginationParams extracts skip/limit from the request query. Absent
// values fall back to skip=0, limit=100. An explicit limit=0 is honored and
// yields an empty result set; negative values fall back to the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultLimit)))
	if err != nil || limit < 0 {
		limit = constants.DefaultLimit
	}

	return PaginationParams{
		Skip:  skip,
		Limit: limit,
	}
}
