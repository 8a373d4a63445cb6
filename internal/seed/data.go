package seed

import (
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/restaurant"
)

func ptr[T any](v T) *T { return &v }

var demoOrganization = struct {
	Name        string
	Slug        string
	Logo        *string
	Description *string
}{
	Name:        "Golden Pad Thai",
	Slug:        "golden-pad-thai",
	Logo:        ptr("https://via.placeholder.com/150?text=GPT"),
	Description: ptr("Thai restaurant chain with three Bangkok branches"),
}

var demoBranches = []struct {
	Name    string
	Address string
}{
	{"Siam Paragon Branch", "991 Rama I Rd, Pathum Wan, Bangkok 10330"},
	{"Thong Lo Branch", "55 Sukhumvit 55, Khlong Tan Nuea, Bangkok 10110"},
	{"Silom Branch", "189 Silom Rd, Silom, Bang Rak, Bangkok 10500"},
}

func menuItem(sku, name, nameTh, description, price, category string, sort int) restaurant.MenuItemInput {
	return restaurant.MenuItemInput{
		SKU:         sku,
		Name:        name,
		NameTh:      ptr(nameTh),
		Description: ptr(description),
		Price:       price,
		Category:    ptr(category),
		SortOrder:   sort,
	}
}

var demoMenu = []restaurant.MenuItemInput{
	menuItem("PAD-001", "Pad Thai (Shrimp)", "ผัดไทยกุ้ง", "Classic Thai stir-fried noodles with shrimp", "150.00", "Main Course", 1),
	menuItem("PAD-002", "Pad Thai (Chicken)", "ผัดไทยไก่", "Classic Thai stir-fried noodles with chicken", "120.00", "Main Course", 2),
	menuItem("TOM-001", "Tom Yum Goong", "ต้มยำกุ้ง", "Spicy and sour Thai soup with shrimp", "180.00", "Soup", 3),
	menuItem("SOM-001", "Som Tam (Papaya Salad)", "ส้มตำ", "Spicy green papaya salad", "80.00", "Salad", 4),
	menuItem("GAI-001", "Gai Yang (Grilled Chicken)", "ไก่ย่าง", "Thai-style grilled chicken", "160.00", "Main Course", 5),
	menuItem("KHA-001", "Khao Pad (Fried Rice)", "ข้าวผัด", "Thai fried rice with egg and vegetables", "90.00", "Main Course", 6),
	menuItem("DRI-001", "Thai Iced Tea", "ชาเย็น", "Sweet and creamy Thai tea", "45.00", "Beverage", 7),
	menuItem("DRI-002", "Coconut Water", "น้ำมะพร้าว", "Fresh coconut water", "50.00", "Beverage", 8),
	menuItem("DES-001", "Mango Sticky Rice", "ข้าวเหนียวมะม่วง", "Sweet sticky rice with ripe mango", "95.00", "Dessert", 9),
	menuItem("APP-001", "Spring Rolls", "ปอเปี๊ยะทอด", "Crispy vegetable spring rolls", "70.00", "Appetizer", 10),
}

var demoMappings = []struct {
	SKU          string
	Platform     domain.Platform
	ExternalID   string
	ExternalName string
}{
	{"PAD-001", domain.PlatformGrab, "GRAB_PT_SHRIMP_001", "Pad Thai with Shrimp"},
	{"PAD-002", domain.PlatformGrab, "GRAB_PT_CHICKEN_001", "Pad Thai with Chicken"},
	{"TOM-001", domain.PlatformGrab, "GRAB_TY_001", "Tom Yum Soup"},
	{"PAD-001", domain.PlatformWongnai, "WNG_PADTHAI_S_001", "ผัดไทยกุ้ง"},
	{"PAD-002", domain.PlatformWongnai, "WNG_PADTHAI_C_001", "ผัดไทยไก่"},
	{"TOM-001", domain.PlatformWongnai, "WNG_TOMYUM_001", "ต้มยำกุ้ง"},
	{"SOM-001", domain.PlatformWongnai, "WNG_SOMTAM_001", "ส้มตำ"},
	{"PAD-001", domain.PlatformLineman, "LM_PT_SHRIMP_20240101", "Pad Thai Goong"},
	{"GAI-001", domain.PlatformLineman, "LM_GAIYANG_20240101", "Grilled Chicken"},
}

type orderLine struct {
	SKU      string
	Quantity int
}

type demoOrder struct {
	restaurant.OrderInput
	// Branch indexes demoBranches.
	Branch int
	Lines  []orderLine
	// Path lists the status changes applied after creation.
	Path []domain.OrderStatus
}

var demoOrders = []demoOrder{
	{
		OrderInput: restaurant.OrderInput{
			Source:       domain.OrderSourcePOS,
			CustomerName: ptr("Walk-in Customer"),
		},
		Branch: 0,
		Lines:  []orderLine{{"PAD-001", 2}, {"DRI-001", 2}},
		Path: []domain.OrderStatus{
			domain.OrderStatusAccepted, domain.OrderStatusPreparing,
			domain.OrderStatusReady, domain.OrderStatusCompleted,
		},
	},
	{
		OrderInput: restaurant.OrderInput{
			Source:          domain.OrderSourceGrab,
			ExternalOrderID: ptr("GRAB_ORD_20260205_001"),
			CustomerName:    ptr("Somchai P."),
			CustomerPhone:   ptr("0812345678"),
			Discount:        "30.00",
		},
		Branch: 1,
		Lines:  []orderLine{{"PAD-002", 1}, {"TOM-001", 1}},
		Path:   []domain.OrderStatus{domain.OrderStatusAccepted, domain.OrderStatusPreparing},
	},
	{
		OrderInput: restaurant.OrderInput{
			Source:          domain.OrderSourceWongnai,
			ExternalOrderID: ptr("WNG_20260205_12345"),
			CustomerName:    ptr("Nopparat K."),
			CustomerPhone:   ptr("0898765432"),
		},
		Branch: 0,
		Lines:  []orderLine{{"PAD-001", 3}, {"SOM-001", 2}, {"DES-001", 1}},
	},
	{
		OrderInput: restaurant.OrderInput{
			Source:          domain.OrderSourceLineman,
			ExternalOrderID: ptr("LM_ORD_2026020512345"),
			CustomerName:    ptr("Apinya W."),
			CustomerPhone:   ptr("0823456789"),
			Discount:        "20.00",
		},
		Branch: 2,
		Lines:  []orderLine{{"GAI-001", 2}, {"KHA-001", 1}},
		Path:   []domain.OrderStatus{domain.OrderStatusAccepted},
	},
}

var demoInventory = []struct {
	restaurant.InventoryInput
	Branch int
}{
	{restaurant.InventoryInput{Name: "Rice Noodles", NameTh: ptr("เส้นก๋วยเตี๋ยว"), SKU: ptr("INV-NOODLES-001"), Quantity: "25.50", Unit: "kg", LowStockThreshold: "10.00"}, 0},
	{restaurant.InventoryInput{Name: "Shrimp", NameTh: ptr("กุ้ง"), SKU: ptr("INV-SHRIMP-001"), Quantity: "8.00", Unit: "kg", LowStockThreshold: "5.00"}, 0},
	{restaurant.InventoryInput{Name: "Chicken Breast", NameTh: ptr("อกไก่"), SKU: ptr("INV-CHICKEN-001"), Quantity: "15.00", Unit: "kg", LowStockThreshold: "10.00"}, 0},
	{restaurant.InventoryInput{Name: "Green Papaya", NameTh: ptr("มะละกอดิบ"), SKU: ptr("INV-PAPAYA-001"), Quantity: "12.00", Unit: "kg", LowStockThreshold: "8.00"}, 0},
	{restaurant.InventoryInput{Name: "Coconut Milk", NameTh: ptr("กะทิ"), SKU: ptr("INV-COCONUT-001"), Quantity: "3.50", Unit: "L", LowStockThreshold: "5.00"}, 1},
	{restaurant.InventoryInput{Name: "Thai Basil", NameTh: ptr("โหระพา"), SKU: ptr("INV-BASIL-001"), Quantity: "2.00", Unit: "kg", LowStockThreshold: "1.00"}, 1},
}

var demoPayments = []struct {
	restaurant.PaymentConfigInput
	Branch int
}{
	{restaurant.PaymentConfigInput{
		PromptPayID:   ptr("0812345678"),
		PromptPayName: ptr("Golden Pad Thai - Siam"),
		ShopLogoURL:   ptr("https://via.placeholder.com/300?text=GPT+Siam"),
		ReceiptHeader: ptr("Golden Pad Thai\nSiam Paragon Branch"),
		ReceiptFooter: ptr("Thank you for your order!\nโทร. 02-123-4567"),
	}, 0},
	{restaurant.PaymentConfigInput{
		PromptPayID:   ptr("0898765432"),
		PromptPayName: ptr("Golden Pad Thai - Thong Lo"),
		ShopLogoURL:   ptr("https://via.placeholder.com/300?text=GPT+ThongLo"),
		ReceiptHeader: ptr("Golden Pad Thai\nThong Lo Branch"),
		ReceiptFooter: ptr("Thank you for your order!\nโทร. 02-234-5678"),
	}, 1},
}
