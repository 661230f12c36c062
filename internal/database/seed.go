package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedTable is a table of a seeded restaurant.
type SeedTable struct {
	Label    string
	Capacity uint32
}

// SeedMenuItem is a dish of a seeded restaurant.
type SeedMenuItem struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Veg         bool
}

// SeedRestaurant is a restaurant together with its tables and menu.
type SeedRestaurant struct {
	Name        string
	City        string
	Cuisine     string
	VegOnly     bool
	Description string
	Tables      []SeedTable
	Menu        []SeedMenuItem
}

// SeedData is the reference catalog used for local development.
type SeedData struct {
	Cities      []string
	Restaurants []SeedRestaurant
}

// DefaultSeed returns the catalog shipped with the service.
func DefaultSeed() SeedData {
	return SeedData{
		Cities: []string{"Karur", "Dindigul", "Salem", "Madurai", "Chennai", "Coimbatore", "Trichy", "Erode"},
		Restaurants: []SeedRestaurant{
			{
				Name: "Valluvar Restaurant", City: "Karur", Cuisine: "South Indian", VegOnly: true,
				Description: "Pure vegetarian restaurant with traditional South Indian cuisine",
				Tables:      tables("T", 2, 4, 6, 2, 4, 6, 8, 2, 4, 6),
				Menu: []SeedMenuItem{
					{"Idli Sambar", "Steamed rice cakes with sambar", 50, "Breakfast", true},
					{"Dosa", "Crispy rice crepe", 60, "Breakfast", true},
					{"Vada", "Deep fried lentil donuts", 40, "Breakfast", true},
					{"Meals", "Traditional South Indian thali", 120, "Lunch", true},
					{"Curd Rice", "Rice with yogurt and seasonings", 80, "Lunch", true},
				},
			},
			{
				Name: "Thalapakatti Hotel", City: "Karur", Cuisine: "Biryani",
				Description: "Famous for authentic Dindigul biryani and non-veg specialties",
				Tables:      tables("A", 4, 6, 2, 8, 4, 6, 2, 4, 6, 8),
				Menu: []SeedMenuItem{
					{"Mutton Biryani", "Authentic Dindigul style mutton biryani", 250, "Main Course", false},
					{"Chicken Biryani", "Spicy chicken biryani", 200, "Main Course", false},
					{"Veg Biryani", "Vegetarian biryani with mixed vegetables", 150, "Main Course", true},
					{"Mutton Chukka", "Dry mutton fry", 280, "Main Course", false},
					{"Chicken 65", "Spicy fried chicken appetizer", 180, "Starters", false},
				},
			},
			{
				Name: "Saravana Bhavan", City: "Chennai", Cuisine: "South Indian", VegOnly: true,
				Description: "Popular vegetarian chain restaurant",
				Tables:      tables("SB", 2, 4, 6, 2, 4, 6, 8, 2, 4, 6),
				Menu: []SeedMenuItem{
					{"Rava Dosa", "Crispy semolina crepe", 80, "Breakfast", true},
					{"Filter Coffee", "Traditional South Indian coffee", 30, "Beverages", true},
					{"Pongal", "Rice and lentil dish", 70, "Breakfast", true},
					{"Sambar Rice", "Rice with sambar gravy", 90, "Lunch", true},
					{"Rasam Rice", "Rice with tangy rasam", 85, "Lunch", true},
				},
			},
			{
				Name: "Buhari Hotel", City: "Chennai", Cuisine: "Multi-cuisine",
				Description: "Heritage restaurant serving both veg and non-veg dishes",
				Tables:      tables("BH", 4, 6, 2, 8, 4, 6, 2, 4, 6, 8),
				Menu: []SeedMenuItem{
					{"Chicken Biryani", "Traditional Chennai style biryani", 220, "Main Course", false},
					{"Mutton Curry", "Spicy mutton curry", 300, "Main Course", false},
					{"Veg Fried Rice", "Fried rice with vegetables", 120, "Main Course", true},
					{"Fish Curry", "South Indian style fish curry", 250, "Main Course", false},
					{"Paneer Butter Masala", "Rich paneer in tomato gravy", 180, "Main Course", true},
				},
			},
		},
	}
}

// tables labels the capacities prefix1, prefix2, ...
func tables(prefix string, capacities ...uint32) []SeedTable {
	out := make([]SeedTable, len(capacities))
	for i, c := range capacities {
		out[i] = SeedTable{Label: fmt.Sprintf("%s%d", prefix, i+1), Capacity: c}
	}
	return out
}

// Seed inserts data into an empty or partially seeded database.  Rows that
// already exist are left untouched, so running it twice is harmless.
func Seed(ctx context.Context, db *sql.DB, data SeedData) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, city := range data.Cities {
		if _, err := tx.ExecContext(ctx, "INSERT IGNORE INTO locations (city_name) VALUES (?)", city); err != nil {
			return fmt.Errorf("seed location %q: %w", city, err)
		}
	}
	for _, r := range data.Restaurants {
		var locationID uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM locations WHERE city_name = ?", r.City).Scan(&locationID); err != nil {
			return fmt.Errorf("seed restaurant %q: location %q: %w", r.Name, r.City, err)
		}
		res, err := tx.ExecContext(ctx,
			"INSERT IGNORE INTO restaurants (location_id, name, cuisine_type, is_veg_only, description) VALUES (?, ?, ?, ?, ?)",
			locationID, r.Name, r.Cuisine, r.VegOnly, r.Description)
		if err != nil {
			return fmt.Errorf("seed restaurant %q: %w", r.Name, err)
		}
		// An ignored insert means the restaurant was seeded before.
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		restaurantID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, t := range r.Tables {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO restaurant_tables (restaurant_id, table_number, capacity) VALUES (?, ?, ?)",
				restaurantID, t.Label, t.Capacity); err != nil {
				return fmt.Errorf("seed table %s/%s: %w", r.Name, t.Label, err)
			}
		}
		for _, m := range r.Menu {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO menu_items (restaurant_id, item_name, description, price, category, is_veg) VALUES (?, ?, ?, ?, ?, ?)",
				restaurantID, m.Name, m.Description, m.Price, m.Category, m.Veg); err != nil {
				return fmt.Errorf("seed menu item %s/%s: %w", r.Name, m.Name, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
