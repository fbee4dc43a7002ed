package ledger

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
)

// fakeTxManager runs the function directly; atomicity is the repository
// fake's concern in these tests.
type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	accounts map[AccountRef]*Account
	txns     []*Transaction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: make(map[AccountRef]*Account)}
}

func (r *fakeRepo) addAccount(orgID id.ID, ref AccountRef, name string) {
	r.accounts[ref] = &Account{Ref: ref, OrgID: orgID, Name: name, Balance: types.Zero()}
}

func (r *fakeRepo) GetAccount(_ context.Context, orgID id.ID, ref AccountRef) (Account, error) {
	a, ok := r.accounts[ref]
	if !ok || a.OrgID != orgID {
		return Account{}, apperror.NewNotFound(string(ref.Kind), ref.ID)
	}
	return *a, nil
}

func (r *fakeRepo) GetAccountForUpdate(ctx context.Context, orgID id.ID, ref AccountRef) (Account, error) {
	return r.GetAccount(ctx, orgID, ref)
}

func (r *fakeRepo) UpdateBalance(_ context.Context, orgID id.ID, ref AccountRef, balance types.Money) error {
	a, ok := r.accounts[ref]
	if !ok || a.OrgID != orgID {
		return apperror.NewNotFound(string(ref.Kind), ref.ID)
	}
	a.Balance = balance
	return nil
}

func (r *fakeRepo) AppendTransaction(_ context.Context, txn *Transaction) error {
	cp := *txn
	r.txns = append(r.txns, &cp)
	return nil
}

func (r *fakeRepo) GetTransaction(_ context.Context, orgID, txnID id.ID) (Transaction, error) {
	for _, t := range r.txns {
		if t.ID == txnID && t.OrgID == orgID {
			return *t, nil
		}
	}
	return Transaction{}, apperror.NewNotFound("transaction", txnID)
}

func (r *fakeRepo) MarkReversed(_ context.Context, orgID, txnID id.ID, at time.Time) error {
	for _, t := range r.txns {
		if t.ID == txnID && t.OrgID == orgID {
			t.ReversedAt = &at
			return nil
		}
	}
	return apperror.NewNotFound("transaction", txnID)
}

func (r *fakeRepo) ListTransactions(_ context.Context, orgID id.ID, ref AccountRef, dr DateRange) ([]Transaction, error) {
	var out []Transaction
	for _, t := range r.txns {
		if t.OrgID != orgID || t.AccountID != ref.ID || t.AccountKind != ref.Kind {
			continue
		}
		if dr.From != nil && t.CreatedAt.Before(*dr.From) {
			continue
		}
		if dr.To != nil && !t.CreatedAt.Before(*dr.To) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *fakeRepo) SumTransactions(ctx context.Context, orgID id.ID, ref AccountRef) (types.Money, error) {
	txns, _ := r.ListTransactions(ctx, orgID, ref, DateRange{})
	sum := types.Zero()
	for i := range txns {
		signed, err := txns[i].SignedAmount()
		if err != nil {
			return types.Zero(), err
		}
		sum = sum.Add(signed)
	}
	return sum, nil
}

func (r *fakeRepo) SumTransactionsBefore(ctx context.Context, orgID id.ID, ref AccountRef, before time.Time) (types.Money, error) {
	txns, _ := r.ListTransactions(ctx, orgID, ref, DateRange{To: &before})
	sum := types.Zero()
	for i := range txns {
		signed, err := txns[i].SignedAmount()
		if err != nil {
			return types.Zero(), err
		}
		sum = sum.Add(signed)
	}
	return sum, nil
}

// --- tests ---

func setup(t *testing.T) (*Service, *fakeRepo, id.ID, AccountRef) {
	t.Helper()
	repo := newFakeRepo()
	orgID := id.New()
	ref := AccountRef{Kind: AccountCustomer, ID: id.New()}
	repo.addAccount(orgID, ref, "Ramesh Kirana")
	return NewService(repo, fakeTxManager{}), repo, orgID, ref
}

func TestApplyTransaction_CreditThenPayment(t *testing.T) {
	svc, _, orgID, ref := setup(t)
	ctx := context.Background()

	_, bal, err := svc.ApplyTransaction(ctx, orgID, ref, EntryCredit, types.MustMoney("500"), "goods on credit")
	require.NoError(t, err)
	assert.True(t, bal.Equal(types.MustMoney("500")))

	_, bal, err = svc.ApplyTransaction(ctx, orgID, ref, EntryPayment, types.MustMoney("200"), "part payment")
	require.NoError(t, err)
	assert.True(t, bal.Equal(types.MustMoney("300")), "receivable after payment = %s", bal)

	got, err := svc.GetBalance(ctx, orgID, ref)
	require.NoError(t, err)
	assert.True(t, got.Equal(types.MustMoney("300")))
}

func TestApplyTransaction_SupplierPolarity(t *testing.T) {
	svc, repo, orgID, _ := setup(t)
	ref := AccountRef{Kind: AccountSupplier, ID: id.New()}
	repo.addAccount(orgID, ref, "Mehta Distributors")
	ctx := context.Background()

	_, bal, err := svc.ApplyTransaction(ctx, orgID, ref, EntryPurchase, types.MustMoney("1000"), "")
	require.NoError(t, err)
	assert.True(t, bal.Equal(types.MustMoney("1000")))

	_, bal, err = svc.ApplyTransaction(ctx, orgID, ref, EntryPayment, types.MustMoney("400"), "")
	require.NoError(t, err)
	assert.True(t, bal.Equal(types.MustMoney("600")))
}

func TestApplyTransaction_RejectsWrongPairing(t *testing.T) {
	svc, _, orgID, ref := setup(t)

	// purchase entries belong to supplier accounts
	_, _, err := svc.ApplyTransaction(context.Background(), orgID, ref, EntryPurchase, types.MustMoney("100"), "")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestApplyTransaction_RejectsNonPositiveAmount(t *testing.T) {
	svc, repo, orgID, ref := setup(t)
	ctx := context.Background()

	for _, amount := range []string{"0", "-10"} {
		_, _, err := svc.ApplyTransaction(ctx, orgID, ref, EntryCredit, types.MustMoney(amount), "")
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok, amount)
		assert.Equal(t, apperror.CodeInvalidAmount, appErr.Code)
	}
	// rejected operations leave no partial state
	assert.Empty(t, repo.txns)
	assert.True(t, repo.accounts[ref].Balance.IsZero())
}

func TestReverseTransaction(t *testing.T) {
	svc, _, orgID, ref := setup(t)
	ctx := context.Background()

	txn, _, err := svc.ApplyTransaction(ctx, orgID, ref, EntryCredit, types.MustMoney("500"), "")
	require.NoError(t, err)
	_, _, err = svc.ApplyTransaction(ctx, orgID, ref, EntryPayment, types.MustMoney("200"), "")
	require.NoError(t, err)

	bal, err := svc.ReverseTransaction(ctx, orgID, txn.ID)
	require.NoError(t, err)
	assert.True(t, bal.Equal(types.MustMoney("-200")), "balance after voiding the credit = %s", bal)

	// voiding twice is a conflict
	_, err = svc.ReverseTransaction(ctx, orgID, txn.ID)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)

	// the voided entry still folds to the cached balance
	require.NoError(t, svc.VerifyBalance(ctx, orgID, ref))
}

func TestGetStatement_RunningBalance(t *testing.T) {
	svc, _, orgID, ref := setup(t)
	ctx := context.Background()

	_, _, err := svc.ApplyTransaction(ctx, orgID, ref, EntryCredit, types.MustMoney("500"), "")
	require.NoError(t, err)
	_, _, err = svc.ApplyTransaction(ctx, orgID, ref, EntryPayment, types.MustMoney("200"), "")
	require.NoError(t, err)
	_, _, err = svc.ApplyTransaction(ctx, orgID, ref, EntryCredit, types.MustMoney("150"), "")
	require.NoError(t, err)

	st, err := svc.GetStatement(ctx, orgID, ref, DateRange{})
	require.NoError(t, err)

	require.Len(t, st.Lines, 3)
	assert.True(t, st.OpeningBalance.IsZero())
	assert.True(t, st.Lines[0].RunningBalance.Equal(types.MustMoney("500")))
	assert.True(t, st.Lines[1].RunningBalance.Equal(types.MustMoney("300")))
	assert.True(t, st.Lines[2].RunningBalance.Equal(types.MustMoney("450")))
	assert.True(t, st.ClosingBalance.Equal(types.MustMoney("450")))
}

func TestGetStatement_OpeningBalanceFromRange(t *testing.T) {
	svc, repo, orgID, ref := setup(t)
	ctx := context.Background()

	_, _, err := svc.ApplyTransaction(ctx, orgID, ref, EntryCredit, types.MustMoney("500"), "")
	require.NoError(t, err)

	// push the first entry into the past so a From cutoff lands after it
	past := time.Now().UTC().Add(-48 * time.Hour)
	repo.txns[0].CreatedAt = past

	from := time.Now().UTC().Add(-time.Hour)
	_, _, err = svc.ApplyTransaction(ctx, orgID, ref, EntryPayment, types.MustMoney("100"), "")
	require.NoError(t, err)

	st, err := svc.GetStatement(ctx, orgID, ref, DateRange{From: &from})
	require.NoError(t, err)

	assert.True(t, st.OpeningBalance.Equal(types.MustMoney("500")))
	require.Len(t, st.Lines, 1)
	assert.True(t, st.Lines[0].RunningBalance.Equal(types.MustMoney("400")))
}

func TestVerifyBalance_DetectsDivergence(t *testing.T) {
	svc, repo, orgID, ref := setup(t)
	ctx := context.Background()

	_, _, err := svc.ApplyTransaction(ctx, orgID, ref, EntryCredit, types.MustMoney("500"), "")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyBalance(ctx, orgID, ref))

	// simulate a rogue write path touching the cached balance
	repo.accounts[ref].Balance = types.MustMoney("9999")

	err = svc.VerifyBalance(ctx, orgID, ref)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBalanceInvariant, appErr.Code)
}
