package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/kwhaley/billrecon/internal/model"
	"github.com/kwhaley/billrecon/internal/money"
	"github.com/kwhaley/billrecon/internal/x12"
)

// AccountMap names the ledger accounts journal entries post to. Loaded
// from the YAML config file.
type AccountMap struct {
	Cash                  string `yaml:"cash"`
	AccountsReceivable    string `yaml:"accounts_receivable"`
	ContractualAllowance  string `yaml:"contractual_allowance"`
	PatientResponsibility string `yaml:"patient_responsibility"`
	InterestIncome        string `yaml:"interest_income"`
	FeeExpense            string `yaml:"fee_expense"`
}

// JournalLine is one debit or credit against an account. Exactly one of
// Debit and Credit is non-zero.
type JournalLine struct {
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// JournalEntry is the balanced double-entry posting for one remittance
// payment.
type JournalEntry struct {
	Reference string        `json:"reference"`
	Memo      string        `json:"memo"`
	Lines     []JournalLine `json:"lines"`
}

// BuildJournalEntry translates a validated payment into a balanced
// journal entry: cash received, receivables relieved at the claimed
// amount, the contractual write-off and patient transfer recognized,
// and provider-level adjustments posted to income or expense.
func BuildJournalEntry(p model.Edi835Payment, accounts AccountMap) (JournalEntry, error) {
	var claimed, contractual, coinsurance decimal.Decimal
	claimed, contractual, coinsurance = money.Zero, money.Zero, money.Zero
	for _, cl := range p.Claims {
		claimed = claimed.Add(cl.AmountClaimed)
		for _, ch := range cl.Charges {
			contractual = contractual.Add(ch.ContractualAdjustment)
			coinsurance = coinsurance.Add(ch.Coinsurance)
		}
	}

	entry := JournalEntry{
		Reference: p.Reference,
		Memo:      "remittance " + p.Reference + " from " + p.PayerName,
	}
	debit := func(account string, amount decimal.Decimal) {
		if !amount.IsZero() {
			entry.Lines = append(entry.Lines, JournalLine{Account: account, Debit: amount, Credit: money.Zero})
		}
	}
	credit := func(account string, amount decimal.Decimal) {
		if !amount.IsZero() {
			entry.Lines = append(entry.Lines, JournalLine{Account: account, Credit: amount, Debit: money.Zero})
		}
	}

	debit(accounts.Cash, p.Amount)
	debit(accounts.ContractualAllowance, contractual)
	debit(accounts.PatientResponsibility, coinsurance)
	credit(accounts.AccountsReceivable, claimed)

	for _, adj := range p.Adjustments {
		account := accounts.FeeExpense
		if adj.Type == model.AdjustmentInterest {
			account = accounts.InterestIncome
		}
		if adj.Amount.IsNegative() {
			debit(account, adj.Amount.Neg())
		} else {
			credit(account, adj.Amount)
		}
	}

	var debits, credits decimal.Decimal
	debits, credits = money.Zero, money.Zero
	for _, l := range entry.Lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	if !money.Equal(debits, credits) {
		return JournalEntry{}, x12.Mismatchf("journal entry %s unbalanced: debits %s, credits %s",
			p.Reference, money.Format(debits), money.Format(credits))
	}
	return entry, nil
}
