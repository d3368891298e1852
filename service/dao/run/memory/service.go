package memory

import (
	"github.com/viant/fluxtree/model/run"
	"github.com/viant/fluxtree/service/dao"
	"github.com/viant/fluxtree/service/dao/criteria"
	"github.com/viant/fluxtree/service/dao/store"
)

// Service keeps run records in memory
type Service struct {
	*store.MemoryStore[string, run.Record]
}

var _ dao.Service[string, run.Record] = (*Service)(nil)

func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, run.Record](
			func(r *run.Record) string { return r.ID },
			func(r *run.Record, parameters []*dao.Parameter) bool {
				return criteria.FilterByStatus(string(r.Status), parameters)
			},
		),
	}
}
