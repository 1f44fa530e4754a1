// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/auditdb"
	"github.com/vechain/rewardpool/rewards/events"
)

type Events struct {
	db    *auditdb.AuditDB
	limit uint64
}

func New(db *auditdb.AuditDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func parseUint(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	filter := &auditdb.Filter{Order: auditdb.ASC}

	if s := query.Get("who"); s != "" {
		who, err := utils.ParseAddress(s, "who")
		if err != nil {
			return err
		}
		filter.Who = &who
	}
	if s := query.Get("kind"); s != "" {
		kind, err := events.ParseKind(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "kind"))
		}
		filter.Kind = &kind
	}
	switch order := auditdb.Order(query.Get("order")); order {
	case "", auditdb.ASC:
	case auditdb.DESC:
		filter.Order = auditdb.DESC
	default:
		return utils.BadRequest(fmt.Errorf("order: unsupported value %q", order))
	}

	var err error
	if filter.Offset, err = parseUint(req, "offset", 0); err != nil {
		return err
	}
	if filter.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Limit, err = parseUint(req, "limit", e.limit); err != nil {
		return err
	}
	if filter.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Limit == 0 {
		return utils.WriteJSON(w, []*Event{})
	}

	records, err := e.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]*Event, len(records))
	for i, r := range records {
		out[i] = convertRecord(r)
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("events_filter").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
