// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balances

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/rewards/currency"
	"github.com/vechain/rewardpool/types"
)

// Balance is an account balance held by the bank.
type Balance struct {
	Address types.Address         `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Balances struct {
	bank *currency.Bank
}

func New(bank *currency.Bank) *Balances {
	return &Balances{bank}
}

func (b *Balances) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	who, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	bal, err := b.bank.Balance(who)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Address: who, Balance: utils.FromAmount(bal)})
}

func (b *Balances) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("balances_get").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBalance))
}
