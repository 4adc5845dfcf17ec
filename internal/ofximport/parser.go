package ofximport

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 200

var ErrInvalidStatement = errors.New("invalid OFX statement")

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Statement is the parsed content of one OFX file. Zero amount rows cannot be stored
// and are only counted.
type Statement struct {
	Transactions []*domain.Transaction
	Skipped      int
}

// Parse reads an OFX/QFX bank or credit card statement. Returned transactions carry
// no owner or account; the caller assigns them.
func Parse(reader io.Reader) (*Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatement, err)
	}

	statement := &Statement{Transactions: []*domain.Transaction{}}
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			statement.add(stmt.BankTranList.Transactions)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			statement.add(stmt.BankTranList.Transactions)
		}
	}
	return statement, nil
}

func (s *Statement) add(transactions []ofxgo.Transaction) {
	for _, ofxTx := range transactions {
		transaction, ok := convert(ofxTx)
		if !ok {
			s.Skipped++
			continue
		}
		s.Transactions = append(s.Transactions, transaction)
	}
}

// preprocess fixes common formatting issues in exported OFX files.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func convert(ofxTx ofxgo.Transaction) (*domain.Transaction, bool) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.Rat.FloatString(2))
	if err != nil || amount.IsZero() {
		return nil, false
	}

	category := categoryFor(ofxTx, amount)
	return &domain.Transaction{
		Description: description(ofxTx),
		Amount:      amount,
		Type:        domain.TypeForAmount(amount),
		Category:    category,
		Date:        ofxTx.DtPosted.Time.Format(domain.DateLayout),
		Icon:        domain.CategoryIcon(category),
	}, true
}

// categoryFor guesses a category from the OFX transaction type. OFX carries no
// categories, so most rows end up as Other.
func categoryFor(ofxTx ofxgo.Transaction, amount decimal.Decimal) domain.Category {
	switch ofxTx.TrnType {
	case ofxgo.TrnTypeInt, ofxgo.TrnTypeDiv:
		return domain.CategoryInvestments
	case ofxgo.TrnTypeFee, ofxgo.TrnTypeSrvChg:
		return domain.CategoryBillsUtilities
	case ofxgo.TrnTypeXfer:
		return domain.CategoryTransfer
	case ofxgo.TrnTypeDirectDep:
		return domain.CategorySalary
	case ofxgo.TrnTypePOS:
		if amount.IsNegative() {
			return domain.CategoryShopping
		}
	}
	return domain.CategoryOther
}

func description(tx ofxgo.Transaction) string {
	name := strings.TrimSpace(string(tx.Name))
	if tx.Payee != nil && tx.Payee.Name != "" {
		name = strings.TrimSpace(string(tx.Payee.Name))
	}
	if name == "" || isGenericDescription(name) {
		if memo := strings.TrimSpace(string(tx.Memo)); memo != "" {
			name = memo
		}
	}
	if name == "" {
		name = "Imported transaction " + string(tx.FiTID)
	}
	if len(name) > maxDescriptionLength {
		name = name[:maxDescriptionLength]
	}
	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
