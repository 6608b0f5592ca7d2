package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	authdomain "github.com/convodash/convodash/internal/auth/domain"
	convdomain "github.com/convodash/convodash/internal/conversation/domain"
	productdomain "github.com/convodash/convodash/internal/product/domain"
	saledomain "github.com/convodash/convodash/internal/sale/domain"
)

type demoProduct struct {
	Code     string
	Name     string
	Price    float64
	Category string
}

var demoCatalog = []demoProduct{
	{Code: "PROD001", Name: "Digital Marketing Course", Price: 497.00, Category: "Education"},
	{Code: "PROD002", Name: "Business Consulting", Price: 1500.00, Category: "Services"},
	{Code: "PROD003", Name: "Growth Hacking E-book", Price: 97.00, Category: "Education"},
	{Code: "PROD004", Name: "One-on-one Mentoring", Price: 800.00, Category: "Services"},
	{Code: "PROD005", Name: "Landing Page Template", Price: 197.00, Category: "Tools"},
}

type demoObjection struct {
	Type            string
	Content         string
	CustomerMessage string
}

var demoObjections = []demoObjection{
	{Type: "price", Content: "Too expensive for me", CustomerMessage: "I cannot afford this right now"},
	{Type: "time", Content: "No time at the moment", CustomerMessage: "I am very busy this week"},
	{Type: "trust", Content: "Needs to think it over", CustomerMessage: "I do not know the company well"},
	{Type: "need", Content: "No need right now", CustomerMessage: "Maybe in the future"},
	{Type: "decision", Content: "Has to consult a partner", CustomerMessage: "I cannot decide alone"},
}

type demoContactReason struct {
	Category    string
	Subcategory string
	Description string
}

var demoContactReasons = []demoContactReason{
	{Category: "question", Subcategory: "product", Description: "Questions about features"},
	{Category: "purchase", Subcategory: "payment", Description: "Payment method details"},
	{Category: "support", Subcategory: "technical", Description: "Technical problems"},
	{Category: "complaint", Subcategory: "delivery", Description: "Delayed delivery"},
	{Category: "purchase", Subcategory: "discount", Description: "Discount request"},
}

var conversationStatuses = []string{
	convdomain.StatusActive,
	convdomain.StatusCompleted,
	convdomain.StatusAbandoned,
}

var paymentMethods = []string{"card", "pix", "boleto"}

var resolutionStatuses = []string{
	convdomain.ResolutionOpen,
	convdomain.ResolutionResolved,
	convdomain.ResolutionEscalated,
}

const (
	demoConversations      = 50
	demoObjectionCount     = 30
	demoContactReasonCount = 40
	saleConversionRate     = 0.3
	handledObjectionRate   = 0.7
)

// EnsureDemoData populates sample analytics data for every tenant that has
// none yet. Tenants with any conversations are skipped, making reruns safe.
func EnsureDemoData(db *gorm.DB, now time.Time) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var tenants []authdomain.Tenant
	if err := db.WithContext(ctx).Where("is_active = ?", true).Find(&tenants).Error; err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(now.UnixNano()))
	for _, tenant := range tenants {
		var count int64
		if err := db.WithContext(ctx).Model(&convdomain.Conversation{}).
			Where("tenant_id = ?", tenant.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return seedTenantTx(ctx, tx, node, rng, tenant.ID, now)
		}); err != nil {
			return err
		}
	}
	return nil
}

func seedTenantTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, rng *rand.Rand, tenantID snowflake.ID, now time.Time) error {
	products := make([]productdomain.Product, 0, len(demoCatalog))
	for _, item := range demoCatalog {
		products = append(products, productdomain.Product{
			ID:          node.Generate(),
			TenantID:    tenantID,
			Code:        item.Code,
			Name:        item.Name,
			Description: fmt.Sprintf("Detailed description of %s", item.Name),
			Price:       item.Price,
			Category:    item.Category,
		})
	}
	if err := tx.WithContext(ctx).Create(&products).Error; err != nil {
		return err
	}

	conversations := make([]convdomain.Conversation, 0, demoConversations)
	for i := 0; i < demoConversations; i++ {
		startedAt := randomPastTime(rng, now, 60)
		conv := convdomain.Conversation{
			ID:            node.Generate(),
			TenantID:      tenantID,
			Code:          fmt.Sprintf("conv_%08x", rng.Uint32()),
			CustomerPhone: fmt.Sprintf("+5511%09d", rng.Intn(1_000_000_000)),
			CustomerName:  fmt.Sprintf("Customer %d", i+1),
			Status:        conversationStatuses[rng.Intn(len(conversationStatuses))],
			Channel:       "whatsapp",
			StartedAt:     startedAt,
		}
		if conv.Status == convdomain.StatusCompleted {
			endedAt := startedAt.Add(time.Duration(rng.Intn(3600)) * time.Second)
			conv.EndedAt = &endedAt
			conv.Duration = int64(endedAt.Sub(startedAt) / time.Second)
		}
		conversations = append(conversations, conv)
	}
	if err := tx.WithContext(ctx).Create(&conversations).Error; err != nil {
		return err
	}

	completed := make([]convdomain.Conversation, 0, len(conversations))
	for _, conv := range conversations {
		if conv.Status == convdomain.StatusCompleted {
			completed = append(completed, conv)
		}
	}

	salesCount := int(float64(len(completed)) * saleConversionRate)
	sales := make([]saledomain.Sale, 0, salesCount)
	for i := 0; i < salesCount; i++ {
		conv := completed[i]
		product := products[rng.Intn(len(products))]
		quantity := int64(rng.Intn(3) + 1)
		saleDate := conv.StartedAt
		if conv.EndedAt != nil {
			saleDate = *conv.EndedAt
		}
		sales = append(sales, saledomain.Sale{
			ID:             node.Generate(),
			TenantID:       tenantID,
			ConversationID: &conv.ID,
			ProductID:      &product.ID,
			Code:           fmt.Sprintf("sale_%08x", rng.Uint32()),
			Quantity:       quantity,
			UnitPrice:      product.Price,
			TotalAmount:    product.Price * float64(quantity),
			Status:         saledomain.StatusConfirmed,
			PaymentMethod:  paymentMethods[rng.Intn(len(paymentMethods))],
			SaleDate:       saleDate,
		})
	}
	if len(sales) > 0 {
		if err := tx.WithContext(ctx).Create(&sales).Error; err != nil {
			return err
		}
	}

	objections := make([]convdomain.Objection, 0, demoObjectionCount)
	for i := 0; i < demoObjectionCount; i++ {
		sample := demoObjections[rng.Intn(len(demoObjections))]
		conv := conversations[rng.Intn(len(conversations))]
		objections = append(objections, convdomain.Objection{
			ID:              node.Generate(),
			TenantID:        tenantID,
			ConversationID:  &conv.ID,
			ObjectionType:   sample.Type,
			Content:         sample.Content,
			CustomerMessage: sample.CustomerMessage,
			WasHandled:      rng.Float64() < handledObjectionRate,
			OccurredAt:      randomPastTime(rng, now, 45),
		})
	}
	if err := tx.WithContext(ctx).Create(&objections).Error; err != nil {
		return err
	}

	reasons := make([]convdomain.ContactReason, 0, demoContactReasonCount)
	for i := 0; i < demoContactReasonCount; i++ {
		sample := demoContactReasons[rng.Intn(len(demoContactReasons))]
		conv := conversations[rng.Intn(len(conversations))]
		reasons = append(reasons, convdomain.ContactReason{
			ID:               node.Generate(),
			TenantID:         tenantID,
			ConversationID:   &conv.ID,
			Category:         sample.Category,
			Subcategory:      sample.Subcategory,
			Description:      sample.Description,
			ResolutionStatus: resolutionStatuses[rng.Intn(len(resolutionStatuses))],
			OccurredAt:       randomPastTime(rng, now, 30),
		})
	}
	return tx.WithContext(ctx).Create(&reasons).Error
}

func randomPastTime(rng *rand.Rand, now time.Time, days int) time.Time {
	return now.UTC().AddDate(0, 0, -rng.Intn(days))
}
