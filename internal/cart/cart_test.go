package cart

import (
	"context"
	"testing"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/01moynul/valuefurniture-golang/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_DecrementsStockAndCountsLines(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Chairs")
	chair := testutil.Product(t, db, cat.ID, "Oak Chair", "39.00", 5)

	c := New(db, "cart-1")
	_, err := c.Add(ctx, chair.ID)
	require.NoError(t, err)
	_, err = c.Add(ctx, chair.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, testutil.Stock(t, db, chair.ID))

	lines, err := c.Items(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Count)
	assert.Equal(t, "Oak Chair", lines[0].Product.Name)
}

func TestAdd_OutOfStockIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Tables")
	table := testutil.Product(t, db, cat.ID, "Pine Table", "150.00", 0)

	c := New(db, "cart-1")
	_, err := c.Add(ctx, table.ID)
	assert.ErrorIs(t, err, ErrOutOfStock)

	assert.Equal(t, 0, testutil.Stock(t, db, table.ID))
	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAdd_UnknownProduct(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := New(db, "cart-1").Add(context.Background(), 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRemove_DecrementsThenDeletes(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Chairs")
	chair := testutil.Product(t, db, cat.ID, "Oak Chair", "39.00", 5)

	c := New(db, "cart-1")
	for i := 0; i < 2; i++ {
		_, err := c.Add(ctx, chair.ID)
		require.NoError(t, err)
	}

	remaining, product, err := c.Remove(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, 4, product.Quantity)

	remaining, _, err = c.Remove(ctx, chair.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 5, testutil.Stock(t, db, chair.ID))

	lines, err := c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, _, err = c.Remove(ctx, chair.ID)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestTotalAndCount(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Living Room")
	a := testutil.Product(t, db, cat.ID, "Product A", "39.00", 10)
	b := testutil.Product(t, db, cat.ID, "Product B", "150.00", 10)

	c := New(db, "cart-1")
	for _, id := range []uint{a.ID, a.ID, b.ID} {
		_, err := c.Add(ctx, id)
		require.NoError(t, err)
	}

	total, err := c.Total(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("228.00").Equal(total), "total was %s", total)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTotalAndCount_EmptyCart(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	c := New(db, "nobody")
	total, err := c.Total(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestConvertToOrder_SnapshotsAndEmpties(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Living Room")
	a := testutil.Product(t, db, cat.ID, "Product A", "39.00", 10)
	b := testutil.Product(t, db, cat.ID, "Product B", "150.00", 10)

	c := New(db, "cart-1")
	for _, id := range []uint{a.ID, a.ID, b.ID} {
		_, err := c.Add(ctx, id)
		require.NoError(t, err)
	}

	order := &models.Order{CustomerID: "cust-1", OrderTotal: decimal.NewFromInt(1)}
	require.NoError(t, db.Create(order).Error)

	id, err := c.ConvertToOrder(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.ID, id)

	// Later catalog changes must not leak into the snapshot.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", a.ID).
		Updates(map[string]interface{}{"name": "Renamed", "price": decimal.NewFromInt(99)}).Error)

	var details []models.OrderDetail
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("product_id").Find(&details).Error)
	require.Len(t, details, 2)
	assert.Equal(t, "Product A", details[0].ProductName)
	assert.Equal(t, 2, details[0].Quantity)
	assert.True(t, decimal.RequireFromString("39.00").Equal(details[0].Cost))
	assert.Equal(t, "cust-1", details[0].CustomerID)
	assert.Equal(t, "Product B", details[1].ProductName)

	var saved models.Order
	require.NoError(t, db.First(&saved, order.ID).Error)
	assert.True(t, decimal.RequireFromString("228").Equal(saved.OrderTotal), "order total was %s", saved.OrderTotal)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReassign_MovesAndMergesLines(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Chairs")
	a := testutil.Product(t, db, cat.ID, "Product A", "10.00", 10)
	b := testutil.Product(t, db, cat.ID, "Product B", "20.00", 10)

	anon := New(db, uuid.NewString())
	user := New(db, "jane@example.com")

	_, err := user.Add(ctx, a.ID)
	require.NoError(t, err)
	_, err = anon.Add(ctx, a.ID)
	require.NoError(t, err)
	_, err = anon.Add(ctx, b.ID)
	require.NoError(t, err)

	oldID := anon.ID()
	require.NoError(t, anon.Reassign(ctx, "jane@example.com"))
	assert.Equal(t, "jane@example.com", anon.ID())

	count, err := New(db, oldID).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	lines, err := user.Items(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	counts := map[uint]int{}
	for _, l := range lines {
		counts[l.ProductID] = l.Count
	}
	assert.Equal(t, map[uint]int{a.ID: 2, b.ID: 1}, counts)
}

type mapSession map[interface{}]interface{}

func (m mapSession) Get(k interface{}) interface{}    { return m[k] }
func (m mapSession) Set(k interface{}, v interface{}) { m[k] = v }

func TestIdentify(t *testing.T) {
	t.Run("signed in user name", func(t *testing.T) {
		s := mapSession{}
		assert.Equal(t, "jane@example.com", Identify(s, "jane@example.com"))
		assert.Equal(t, "jane@example.com", s[SessionKey])
	})

	t.Run("anonymous gets a stable token", func(t *testing.T) {
		s := mapSession{}
		first := Identify(s, "")
		_, err := uuid.Parse(first)
		require.NoError(t, err)
		assert.Equal(t, first, Identify(s, ""))
	})

	t.Run("existing session id wins", func(t *testing.T) {
		s := mapSession{SessionKey: "token-1"}
		assert.Equal(t, "token-1", Identify(s, "jane@example.com"))
	})
}

func TestSweep_ReleasesStaleAnonymousLines(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Chairs")
	chair := testutil.Product(t, db, cat.ID, "Oak Chair", "39.00", 5)
	jane := testutil.User(t, db, "jane@example.com", "Jane", "")

	stale := New(db, uuid.NewString())
	fresh := New(db, uuid.NewString())
	signedIn := New(db, jane.UserName)
	for _, c := range []*Cart{stale, stale, fresh, signedIn} {
		_, err := c.Add(ctx, chair.ID)
		require.NoError(t, err)
	}
	require.Equal(t, 1, testutil.Stock(t, db, chair.ID))

	old := time.Now().Add(-72 * time.Hour)
	for _, id := range []string{stale.ID(), signedIn.ID()} {
		require.NoError(t, db.Model(&models.CartLine{}).Where("cart_id = ?", id).Update("date_created", old).Error)
	}

	released, err := Sweep(ctx, db, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, 3, testutil.Stock(t, db, chair.ID))

	count, err := stale.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = fresh.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = signedIn.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSweep_IgnoresAccountsWithoutUserName(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cat := testutil.Category(t, db, "Chairs")
	chair := testutil.Product(t, db, cat.ID, "Oak Chair", "39.00", 5)
	require.NoError(t, db.Exec("INSERT INTO users (id, email) VALUES (?, ?)", uuid.NewString(), "legacy@example.com").Error)

	stale := New(db, uuid.NewString())
	_, err := stale.Add(ctx, chair.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.CartLine{}).Where("cart_id = ?", stale.ID()).Update("date_created", time.Now().Add(-72*time.Hour)).Error)

	released, err := Sweep(ctx, db, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, 5, testutil.Stock(t, db, chair.ID))
}
