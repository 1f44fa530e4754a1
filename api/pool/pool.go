// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/rewards"
	"github.com/vechain/rewardpool/types"
)

type Pool struct {
	engine *rewards.Engine
}

func New(engine *rewards.Engine) *Pool {
	return &Pool{engine}
}

// actionError maps engine errors to response codes.
func actionError(err error) error {
	switch rewards.KindOf(err) {
	case rewards.KindInsufficientStake, rewards.KindArithmetic:
		return utils.BadRequest(err)
	case rewards.KindNoStakers:
		return utils.HTTPError(err, http.StatusConflict)
	case rewards.KindTransfer:
		return utils.HTTPError(err, http.StatusPaymentRequired)
	default:
		return err
	}
}

func (p *Pool) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	ledger, err := p.engine.Pool()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, ConvertSummary(p.engine.Custody(), ledger))
}

func (p *Pool) handleGetParticipants(w http.ResponseWriter, _ *http.Request) error {
	list := make([]*Participant, 0)
	if err := p.engine.Participants(func(part *rewards.Participant) bool {
		list = append(list, ConvertParticipant(part))
		return true
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (p *Pool) handleGetParticipant(w http.ResponseWriter, req *http.Request) error {
	who, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	part, found, err := p.engine.Participant(who)
	if err != nil {
		return err
	}
	if !found {
		return utils.NotFound(errors.New("participant not found"))
	}
	return utils.WriteJSON(w, ConvertParticipant(part))
}

func (p *Pool) parseStake(req *http.Request) (types.Address, *StakeRequest, error) {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return types.Address{}, nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Who.IsZero() {
		return types.Address{}, nil, utils.BadRequest(errors.New("who: required"))
	}
	return body.Who, &body, nil
}

func (p *Pool) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	who, body, err := p.parseStake(req)
	if err != nil {
		return err
	}
	amount, err := utils.ToAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	if err := p.engine.Deposit(who, amount); err != nil {
		return actionError(err)
	}
	return utils.WriteJSON(w, &AmountResult{utils.FromAmount(amount)})
}

func (p *Pool) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	who, body, err := p.parseStake(req)
	if err != nil {
		return err
	}
	amount, err := utils.ToAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	if err := p.engine.Withdraw(who, amount); err != nil {
		return actionError(err)
	}
	return utils.WriteJSON(w, &AmountResult{utils.FromAmount(amount)})
}

func (p *Pool) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Who.IsZero() {
		return utils.BadRequest(errors.New("who: required"))
	}
	paid, err := p.engine.Claim(body.Who)
	if err != nil {
		return actionError(err)
	}
	return utils.WriteJSON(w, &AmountResult{utils.FromAmount(paid)})
}

func (p *Pool) handleDistribute(w http.ResponseWriter, req *http.Request) error {
	var body DistributeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ToAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	if err := p.engine.Distribute(amount); err != nil {
		return actionError(err)
	}
	return utils.WriteJSON(w, &AmountResult{utils.FromAmount(amount)})
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("pool_get").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/participants").
		Methods(http.MethodGet).
		Name("pool_get_participants").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetParticipants))
	sub.Path("/participants/{address}").
		Methods(http.MethodGet).
		Name("pool_get_participant").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetParticipant))
	sub.Path("/deposit").
		Methods(http.MethodPost).
		Name("pool_deposit").
		HandlerFunc(utils.WrapHandlerFunc(p.handleDeposit))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("pool_withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("pool_claim").
		HandlerFunc(utils.WrapHandlerFunc(p.handleClaim))
	sub.Path("/distribute").
		Methods(http.MethodPost).
		Name("pool_distribute").
		HandlerFunc(utils.WrapHandlerFunc(p.handleDistribute))
}
