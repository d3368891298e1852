package criteria

import (
	"github.com/viant/fluxtree/service/dao"
)

// StatusParameter names the List filter on run status
const StatusParameter = "Status"

// FilterByStatus reports whether status is one of the requested statuses
func FilterByStatus(status string, parameters []*dao.Parameter) bool {
	return dao.Match(StatusParameter, status, parameters)
}
