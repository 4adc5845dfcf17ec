package domain

type Category string

const (
	CategoryFoodDining     Category = "Food & Dining"
	CategoryGroceries      Category = "Groceries"
	CategoryTransportation Category = "Transportation"
	CategoryShopping       Category = "Shopping"
	CategoryEntertainment  Category = "Entertainment"
	CategoryBillsUtilities Category = "Bills & Utilities"
	CategoryHealthFitness  Category = "Health & Fitness"
	CategoryTravel         Category = "Travel"
	CategoryEducation      Category = "Education"
	CategoryPersonalCare   Category = "Personal Care"
	CategoryHousing        Category = "Housing"
	CategorySalary         Category = "Salary"
	CategoryInvestments    Category = "Investments"
	CategoryGifts          Category = "Gifts & Donations"
	CategoryTransfer       Category = "Transfer"
	CategoryOther          Category = "Other"
)

// categoryIcons holds the display icon denormalized onto every transaction.
var categoryIcons = map[Category]string{
	CategoryFoodDining:     "utensils",
	CategoryGroceries:      "shopping-cart",
	CategoryTransportation: "car",
	CategoryShopping:       "shopping-bag",
	CategoryEntertainment:  "film",
	CategoryBillsUtilities: "file-text",
	CategoryHealthFitness:  "heart-pulse",
	CategoryTravel:         "plane",
	CategoryEducation:      "graduation-cap",
	CategoryPersonalCare:   "sparkles",
	CategoryHousing:        "home",
	CategorySalary:         "briefcase",
	CategoryInvestments:    "trending-up",
	CategoryGifts:          "gift",
	CategoryTransfer:       "repeat",
	CategoryOther:          "circle",
}

var Categories = []Category{
	CategoryFoodDining,
	CategoryGroceries,
	CategoryTransportation,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBillsUtilities,
	CategoryHealthFitness,
	CategoryTravel,
	CategoryEducation,
	CategoryPersonalCare,
	CategoryHousing,
	CategorySalary,
	CategoryInvestments,
	CategoryGifts,
	CategoryTransfer,
	CategoryOther,
}

func IsValidCategory(category Category) bool {
	_, ok := categoryIcons[category]
	return ok
}

// CategoryIcon returns the icon tag for a category, or "" for unknown categories.
func CategoryIcon(category Category) string {
	return categoryIcons[category]
}
