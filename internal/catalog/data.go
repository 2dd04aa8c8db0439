package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/Eggie20/Online-Supermarket/internal/domain"
)

const (
	locPoblacion = "Poblacion, Cabadbaran City"
	locBayabas   = "Bayabas, Cabadbaran City"
	locKinda     = "Kinda, Cabadbaran City"
)

func peso(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var defaultProducts = []domain.CatalogProduct{
	{ID: 1, Name: "Fresh Red Onions", Category: "Vegetables", Price: peso("85.00"), Stock: 50, Seller: "Cabadbaran Fresh Market", SellerLocation: locPoblacion, Image: "assets/img/products/onion.jpg", Description: "Fresh locally-sourced red onions, perfect for cooking. High quality and affordable.", Unit: "per kg", Featured: true, Rating: 4.5, Reviews: 23},
	{ID: 2, Name: "Orange Carrots", Category: "Vegetables", Price: peso("95.00"), Stock: 35, Seller: "Veggie Haven Supermarket", SellerLocation: locBayabas, Image: "assets/img/products/carrot.jpg", Description: "Crisp and sweet orange carrots, rich in vitamins. Freshly harvested.", Unit: "per kg", Featured: true, Rating: 4.8, Reviews: 18},
	{ID: 3, Name: "Premium White Rice", Category: "Grains", Price: peso("52.00"), Stock: 100, Seller: "Cabadbaran Fresh Market", SellerLocation: locPoblacion, Image: "assets/img/products/rice.jpg", Description: "High-quality white rice, perfect for daily meals. Clean and well-milled.", Unit: "per kg", Featured: true, Rating: 4.7, Reviews: 45},
	{ID: 4, Name: "Farm Fresh Eggs", Category: "Dairy", Price: peso("8.50"), Stock: 120, Seller: "Morning Glory Store", SellerLocation: locKinda, Image: "assets/img/products/eggs.jpg", Description: "Fresh eggs from local farms. Rich in protein and nutrients.", Unit: "per piece", Featured: true, Rating: 4.9, Reviews: 67},
	{ID: 5, Name: "Fresh Milk", Category: "Dairy", Price: peso("95.00"), Stock: 25, Seller: "Dairy Delights Mart", SellerLocation: locPoblacion, Image: "assets/img/products/milk.jpg", Description: "Pure fresh milk, pasteurized and ready to drink. Rich and creamy.", Unit: "per liter", Rating: 4.6, Reviews: 34},
	{ID: 6, Name: "Chicken Breast", Category: "Meat", Price: peso("210.00"), Stock: 15, Seller: "Meat Masters Supermarket", SellerLocation: locBayabas, Image: "assets/img/products/chicken.jpg", Description: "Fresh chicken breast, perfect for grilling or frying. High quality meat.", Unit: "per kg", Featured: true, Rating: 4.7, Reviews: 29},
	{ID: 7, Name: "Fresh Tomatoes", Category: "Vegetables", Price: peso("75.00"), Stock: 40, Seller: "Veggie Haven Supermarket", SellerLocation: locBayabas, Image: "assets/img/products/tomato.jpg", Description: "Ripe and juicy tomatoes, perfect for salads and cooking.", Unit: "per kg", Rating: 4.4, Reviews: 21},
	{ID: 8, Name: "Green Cabbage", Category: "Vegetables", Price: peso("65.00"), Stock: 30, Seller: "Cabadbaran Fresh Market", SellerLocation: locPoblacion, Image: "assets/img/products/cabbage.jpg", Description: "Fresh green cabbage, crisp and healthy. Great for salads.", Unit: "per kg", Rating: 4.3, Reviews: 15},
	{ID: 9, Name: "Sweet Corn", Category: "Vegetables", Price: peso("45.00"), Stock: 55, Seller: "Morning Glory Store", SellerLocation: locKinda, Image: "assets/img/products/corn.jpg", Description: "Sweet and tender corn, perfect for boiling or grilling.", Unit: "per piece", Rating: 4.6, Reviews: 19},
	{ID: 10, Name: "Fresh Bananas", Category: "Fruits", Price: peso("55.00"), Stock: 80, Seller: "Fruit Paradise", SellerLocation: locPoblacion, Image: "assets/img/products/banana.jpg", Description: "Ripe bananas, sweet and nutritious. Perfect for snacking.", Unit: "per kg", Featured: true, Rating: 4.8, Reviews: 52},
	{ID: 11, Name: "Red Apples", Category: "Fruits", Price: peso("180.00"), Stock: 20, Seller: "Fruit Paradise", SellerLocation: locPoblacion, Image: "assets/img/products/apple.jpg", Description: "Crisp and sweet red apples, imported quality.", Unit: "per kg", Rating: 4.7, Reviews: 28},
	{ID: 12, Name: "Fresh Mangoes", Category: "Fruits", Price: peso("120.00"), Stock: 25, Seller: "Fruit Paradise", SellerLocation: locPoblacion, Image: "assets/img/products/mango.jpg", Description: "Sweet Philippine mangoes, perfectly ripe and delicious.", Unit: "per kg", Featured: true, Rating: 5.0, Reviews: 89},
	{ID: 13, Name: "Pork Chops", Category: "Meat", Price: peso("280.00"), Stock: 12, Seller: "Meat Masters Supermarket", SellerLocation: locBayabas, Image: "assets/img/products/pork.jpg", Description: "Premium pork chops, tender and flavorful.", Unit: "per kg", Rating: 4.6, Reviews: 31},
	{ID: 14, Name: "Fresh Fish", Category: "Seafood", Price: peso("250.00"), Stock: 18, Seller: "Ocean Fresh Market", SellerLocation: locPoblacion, Image: "assets/img/products/fish.jpg", Description: "Fresh catch of the day, cleaned and ready to cook.", Unit: "per kg", Rating: 4.5, Reviews: 24},
	{ID: 15, Name: "Cooking Oil", Category: "Pantry", Price: peso("145.00"), Stock: 45, Seller: "Daily Essentials Store", SellerLocation: locKinda, Image: "assets/img/products/oil.jpg", Description: "Pure vegetable cooking oil, perfect for all your cooking needs.", Unit: "per liter", Rating: 4.4, Reviews: 38},
	{ID: 16, Name: "Brown Sugar", Category: "Pantry", Price: peso("65.00"), Stock: 60, Seller: "Daily Essentials Store", SellerLocation: locKinda, Image: "assets/img/products/sugar.jpg", Description: "Natural brown sugar, perfect for baking and sweetening.", Unit: "per kg", Rating: 4.3, Reviews: 17},
	{ID: 17, Name: "Soy Sauce", Category: "Condiments", Price: peso("45.00"), Stock: 70, Seller: "Daily Essentials Store", SellerLocation: locKinda, Image: "assets/img/products/soysauce.jpg", Description: "Premium soy sauce, adds flavor to any dish.", Unit: "per bottle", Rating: 4.5, Reviews: 42},
	{ID: 18, Name: "Instant Coffee", Category: "Beverages", Price: peso("125.00"), Stock: 35, Seller: "Morning Glory Store", SellerLocation: locKinda, Image: "assets/img/products/coffee.jpg", Description: "Rich and aromatic instant coffee, perfect for your morning brew.", Unit: "per pack", Rating: 4.7, Reviews: 56},
	{ID: 19, Name: "Green Tea", Category: "Beverages", Price: peso("85.00"), Stock: 40, Seller: "Health Plus Mart", SellerLocation: locPoblacion, Image: "assets/img/products/tea.jpg", Description: "Premium green tea bags, healthy and refreshing.", Unit: "per box", Rating: 4.6, Reviews: 33},
	{ID: 20, Name: "Bottled Water", Category: "Beverages", Price: peso("15.00"), Stock: 150, Seller: "Daily Essentials Store", SellerLocation: locKinda, Image: "assets/img/products/water.jpg", Description: "Pure drinking water, purified and safe.", Unit: "per bottle", Rating: 4.8, Reviews: 91},
}

var defaultCategories = []domain.Category{
	{ID: 1, Name: "Vegetables", Icon: "🥕", Count: 5},
	{ID: 2, Name: "Fruits", Icon: "🍎", Count: 3},
	{ID: 3, Name: "Dairy", Icon: "🥛", Count: 2},
	{ID: 4, Name: "Grains", Icon: "🌾", Count: 1},
	{ID: 5, Name: "Meat", Icon: "🍖", Count: 2},
	{ID: 6, Name: "Seafood", Icon: "🐟", Count: 1},
	{ID: 7, Name: "Pantry", Icon: "🥫", Count: 3},
	{ID: 8, Name: "Condiments", Icon: "🧂", Count: 1},
	{ID: 9, Name: "Beverages", Icon: "☕", Count: 3},
}

var defaultSellers = []domain.Seller{
	{ID: 1, Name: "Cabadbaran Fresh Market", Location: locPoblacion, Contact: "+63 912 345 6789", Email: "freshmarket@cabadbaran.com", Rating: 4.7, ProductsCount: 45, Verified: true},
	{ID: 2, Name: "Veggie Haven Supermarket", Location: locBayabas, Contact: "+63 923 456 7890", Email: "veggiehaven@gmail.com", Rating: 4.8, ProductsCount: 32, Verified: true},
	{ID: 3, Name: "Morning Glory Store", Location: locKinda, Contact: "+63 934 567 8901", Email: "morningglory@yahoo.com", Rating: 4.6, ProductsCount: 28, Verified: true},
	{ID: 4, Name: "Dairy Delights Mart", Location: locPoblacion, Contact: "+63 945 678 9012", Email: "dairydelights@gmail.com", Rating: 4.5, ProductsCount: 15, Verified: true},
	{ID: 5, Name: "Meat Masters Supermarket", Location: locBayabas, Contact: "+63 956 789 0123", Email: "meatmasters@cabadbaran.com", Rating: 4.7, ProductsCount: 22, Verified: true},
}
