// Package taxonomy holds the fixed classification scheme for transactions:
// the status/type/category/subcategory enumerations, their display labels,
// and the type→category and category→subcategory adjacency tables.
// The data is compiled in and never changes at runtime.
package taxonomy

type Status string

const (
	StatusBusiness Status = "business"
	StatusPersonal Status = "personal"
	StatusTax      Status = "tax"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

type Category string

const (
	// Income categories
	CategorySalary      Category = "salary"
	CategoryFreelance   Category = "freelance"
	CategoryInvestments Category = "investments"
	CategorySales       Category = "sales"

	// Expense categories
	CategoryInfrastructure Category = "infrastructure"
	CategoryMarketing      Category = "marketing"
	CategoryFood           Category = "food"
	CategoryTransport      Category = "transport"
	CategoryEntertainment  Category = "entertainment"
)

type Subcategory string

const (
	SubcategoryMainSalary Subcategory = "main_salary"
	SubcategoryBonus      Subcategory = "bonus"

	SubcategoryWebDev Subcategory = "web_dev"
	SubcategoryDesign Subcategory = "design"

	SubcategoryDividends Subcategory = "dividends"

	SubcategoryGoodsSales Subcategory = "goods_sales"

	SubcategoryVPS     Subcategory = "vps"
	SubcategoryProxy   Subcategory = "proxy"
	SubcategoryDomains Subcategory = "domains"
	SubcategorySSL     Subcategory = "ssl"

	SubcategoryFarpost      Subcategory = "farpost"
	SubcategoryAvito        Subcategory = "avito"
	SubcategoryYandexDirect Subcategory = "yandex_direct"
	SubcategoryGoogleAds    Subcategory = "google_ads"

	SubcategoryProducts    Subcategory = "products"
	SubcategoryRestaurants Subcategory = "restaurants"
	SubcategoryDelivery    Subcategory = "delivery"

	SubcategoryFuel            Subcategory = "fuel"
	SubcategoryPublicTransport Subcategory = "public_transport"
	SubcategoryTaxi            Subcategory = "taxi"

	SubcategoryCinema        Subcategory = "cinema"
	SubcategoryGames         Subcategory = "games"
	SubcategoryBooks         Subcategory = "books"
	SubcategorySubscriptions Subcategory = "subscriptions"
)

var statuses = []Status{StatusBusiness, StatusPersonal, StatusTax}

var types = []Type{TypeIncome, TypeExpense}

var categories = []Category{
	CategorySalary, CategoryFreelance, CategoryInvestments, CategorySales,
	CategoryInfrastructure, CategoryMarketing, CategoryFood, CategoryTransport, CategoryEntertainment,
}

var subcategories = []Subcategory{
	SubcategoryMainSalary, SubcategoryBonus,
	SubcategoryWebDev, SubcategoryDesign,
	SubcategoryDividends,
	SubcategoryGoodsSales,
	SubcategoryVPS, SubcategoryProxy, SubcategoryDomains, SubcategorySSL,
	SubcategoryFarpost, SubcategoryAvito, SubcategoryYandexDirect, SubcategoryGoogleAds,
	SubcategoryProducts, SubcategoryRestaurants, SubcategoryDelivery,
	SubcategoryFuel, SubcategoryPublicTransport, SubcategoryTaxi,
	SubcategoryCinema, SubcategoryGames, SubcategoryBooks, SubcategorySubscriptions,
}

var statusLabels = map[Status]string{
	StatusBusiness: "Бизнес",
	StatusPersonal: "Личное",
	StatusTax:      "Налог",
}

var typeLabels = map[Type]string{
	TypeIncome:  "Поступление",
	TypeExpense: "Списание",
}

var categoryLabels = map[Category]string{
	CategorySalary:         "Зарплата",
	CategoryFreelance:      "Фриланс",
	CategoryInvestments:    "Инвестиции",
	CategorySales:          "Продажи",
	CategoryInfrastructure: "Инфраструктура",
	CategoryMarketing:      "Маркетинг",
	CategoryFood:           "Еда",
	CategoryTransport:      "Транспорт",
	CategoryEntertainment:  "Развлечения",
}

var subcategoryLabels = map[Subcategory]string{
	SubcategoryMainSalary:      "Основная зарплата",
	SubcategoryBonus:           "Премия",
	SubcategoryWebDev:          "Веб-разработка",
	SubcategoryDesign:          "Дизайн",
	SubcategoryDividends:       "Дивиденды",
	SubcategoryGoodsSales:      "Продажа товаров",
	SubcategoryVPS:             "VPS",
	SubcategoryProxy:           "Proxy",
	SubcategoryDomains:         "Домены",
	SubcategorySSL:             "SSL-сертификаты",
	SubcategoryFarpost:         "Farpost",
	SubcategoryAvito:           "Avito",
	SubcategoryYandexDirect:    "Яндекс.Директ",
	SubcategoryGoogleAds:       "Google Ads",
	SubcategoryProducts:        "Продукты",
	SubcategoryRestaurants:     "Рестораны",
	SubcategoryDelivery:        "Доставка",
	SubcategoryFuel:            "Топливо",
	SubcategoryPublicTransport: "Общественный транспорт",
	SubcategoryTaxi:            "Такси",
	SubcategoryCinema:          "Кино",
	SubcategoryGames:           "Игры",
	SubcategoryBooks:           "Книги",
	SubcategorySubscriptions:   "Подписки",
}

var typeCategories = map[Type][]Category{
	TypeIncome:  {CategorySalary, CategoryFreelance, CategoryInvestments, CategorySales},
	TypeExpense: {CategoryInfrastructure, CategoryMarketing, CategoryFood, CategoryTransport, CategoryEntertainment},
}

var categorySubcategories = map[Category][]Subcategory{
	CategorySalary:      {SubcategoryMainSalary, SubcategoryBonus},
	CategoryFreelance:   {SubcategoryWebDev, SubcategoryDesign},
	CategoryInvestments: {SubcategoryDividends},
	CategorySales:       {SubcategoryGoodsSales},

	CategoryInfrastructure: {SubcategoryVPS, SubcategoryProxy, SubcategoryDomains, SubcategorySSL},
	CategoryMarketing:      {SubcategoryFarpost, SubcategoryAvito, SubcategoryYandexDirect, SubcategoryGoogleAds},
	CategoryFood:           {SubcategoryProducts, SubcategoryRestaurants, SubcategoryDelivery},
	CategoryTransport:      {SubcategoryFuel, SubcategoryPublicTransport, SubcategoryTaxi},
	CategoryEntertainment:  {SubcategoryCinema, SubcategoryGames, SubcategoryBooks, SubcategorySubscriptions},
}

func (s Status) Valid() bool { _, ok := statusLabels[s]; return ok }

func (t Type) Valid() bool { _, ok := typeLabels[t]; return ok }

func (c Category) Valid() bool { _, ok := categoryLabels[c]; return ok }

func (s Subcategory) Valid() bool { _, ok := subcategoryLabels[s]; return ok }

// Label returns the display text for the value, falling back to the machine
// value itself when the value is unknown. Labels are presentation only and
// never participate in validation.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (s Subcategory) Label() string {
	if l, ok := subcategoryLabels[s]; ok {
		return l
	}
	return string(s)
}

// Statuses returns all statuses in display order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// Types returns all transaction types in display order.
func Types() []Type {
	out := make([]Type, len(types))
	copy(out, types)
	return out
}

// Categories returns all categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Subcategories returns all subcategories in display order.
func Subcategories() []Subcategory {
	out := make([]Subcategory, len(subcategories))
	copy(out, subcategories)
	return out
}

// CategoriesFor returns the categories legal for the given type, in display
// order. Unknown types yield an empty slice, never an error.
func CategoriesFor(t Type) []Category {
	src := typeCategories[t]
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// SubcategoriesFor returns the subcategories legal for the given category, in
// display order. Unknown categories yield an empty slice, never an error.
func SubcategoriesFor(c Category) []Subcategory {
	src := categorySubcategories[c]
	out := make([]Subcategory, len(src))
	copy(out, src)
	return out
}

// Option is a value/label pair used to populate selectable controls. The JSON
// field names match the contract consumed by the dropdown script.
type Option struct {
	Value string `json:"id"`
	Label string `json:"name"`
}

// StatusOptions returns the status choices in display order.
func StatusOptions() []Option {
	out := make([]Option, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Option{Value: string(s), Label: s.Label()})
	}
	return out
}

// TypeOptions returns the type choices in display order.
func TypeOptions() []Option {
	out := make([]Option, 0, len(types))
	for _, t := range types {
		out = append(out, Option{Value: string(t), Label: t.Label()})
	}
	return out
}

// CategoryOptions returns the category choices legal for the given type.
// Unknown or empty types yield an empty (non-nil) slice.
func CategoryOptions(t Type) []Option {
	cats := typeCategories[t]
	out := make([]Option, 0, len(cats))
	for _, c := range cats {
		out = append(out, Option{Value: string(c), Label: c.Label()})
	}
	return out
}

// SubcategoryOptions returns the subcategory choices legal for the given
// category. Unknown or empty categories yield an empty (non-nil) slice.
func SubcategoryOptions(c Category) []Option {
	subs := categorySubcategories[c]
	out := make([]Option, 0, len(subs))
	for _, s := range subs {
		out = append(out, Option{Value: string(s), Label: s.Label()})
	}
	return out
}

// AllCategoryOptions returns every category regardless of type. Used by the
// edit form, which starts with the full list and narrows via the dropdown
// endpoints only when the user changes the type.
func AllCategoryOptions() []Option {
	out := make([]Option, 0, len(categories))
	for _, c := range categories {
		out = append(out, Option{Value: string(c), Label: c.Label()})
	}
	return out
}

// AllSubcategoryOptions returns every subcategory regardless of category.
func AllSubcategoryOptions() []Option {
	out := make([]Option, 0, len(subcategories))
	for _, s := range subcategories {
		out = append(out, Option{Value: string(s), Label: s.Label()})
	}
	return out
}
