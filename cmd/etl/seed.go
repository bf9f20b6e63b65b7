package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
)

// Synthetic snapshot generator for local development. The distributions
// mirror a plausible year of purchasing activity; only the raw columns are
// written, the loader derives the rest.

var (
	categories = []string{"Raw Material", "Component", "Finished Good"}
	countries  = []string{"USA", "Germany", "China", "India", "Mexico"}
	payTerms   = []int{30, 45, 60, 90}
)

type seedProduct struct {
	id       string
	name     string
	category string
	unitCost float64
	abcClass string
}

type seedSupplier struct {
	id             string
	name           string
	leadTimeTarget int
	qualityRating  float64
}

func runSeed(c *cli.Context) error {
	rng := rand.New(rand.NewSource(42))
	dir := c.String("data-dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	nOrders := c.Int("orders")
	nProducts := c.Int("products")
	nSuppliers := c.Int("suppliers")

	products := make([]seedProduct, nProducts)
	productRows := [][]string{{"product_id", "product_name", "category", "unit_cost", "abc_class", "carrying_cost_rate", "scrap_cost"}}
	for i := range products {
		unitCost := 5 + rng.Float64()*495
		products[i] = seedProduct{
			id:       fmt.Sprintf("P%04d", i+1),
			name:     fmt.Sprintf("Product_%d", i+1),
			category: categories[rng.Intn(len(categories))],
			unitCost: unitCost,
			abcClass: weightedClass(rng),
		}
		productRows = append(productRows, []string{
			products[i].id,
			products[i].name,
			products[i].category,
			ftoa(unitCost),
			products[i].abcClass,
			ftoa(0.15 + rng.Float64()*0.20),
			ftoa(unitCost * (0.8 + rng.Float64()*0.4)),
		})
	}

	suppliers := make([]seedSupplier, nSuppliers)
	supplierRows := [][]string{{"supplier_id", "supplier_name", "country", "quality_rating", "lead_time_target", "payment_terms", "discount_rate"}}
	for i := range suppliers {
		suppliers[i] = seedSupplier{
			id:             fmt.Sprintf("SUP%03d", i+1),
			name:           fmt.Sprintf("Supplier_%d", i+1),
			leadTimeTarget: 5 + rng.Intn(25),
			qualityRating:  85 + rng.Float64()*14,
		}
		supplierRows = append(supplierRows, []string{
			suppliers[i].id,
			suppliers[i].name,
			countries[rng.Intn(len(countries))],
			ftoa(suppliers[i].qualityRating),
			strconv.Itoa(suppliers[i].leadTimeTarget),
			strconv.Itoa(payTerms[rng.Intn(len(payTerms))]),
			ftoa(rng.Float64() * 0.05),
		})
	}

	orderRows := [][]string{{
		"order_id", "supplier_id", "product_id", "category", "abc_class",
		"order_date", "planned_delivery", "delivery_date", "quantity",
		"unit_cost", "lead_time_target", "defect_rate",
		"mrp_compliance", "setup_compliance",
	}}
	start := time.Now().AddDate(0, 0, -365)
	for i := 0; i < nOrders; i++ {
		p := products[rng.Intn(len(products))]
		s := suppliers[rng.Intn(len(suppliers))]

		orderDate := start.AddDate(0, 0, rng.Intn(365))
		planned := orderDate.AddDate(0, 0, s.leadTimeTarget)
		slip := int(rng.NormFloat64() * 1.5)
		if slip < 0 {
			slip = 0
		}
		delivered := planned.AddDate(0, 0, slip)

		defectRate := 0.0
		switch {
		case s.qualityRating > 95:
			defectRate = rng.Float64() * 0.5
		case s.qualityRating > 90:
			defectRate = rng.Float64() * 2
		default:
			defectRate = rng.Float64() * 4
		}

		orderRows = append(orderRows, []string{
			fmt.Sprintf("ORD%06d", i+1),
			s.id,
			p.id,
			p.category,
			p.abcClass,
			orderDate.Format("2006-01-02"),
			planned.Format("2006-01-02"),
			delivered.Format("2006-01-02"),
			strconv.Itoa(50 + rng.Intn(450)),
			ftoa(p.unitCost * (0.95 + rng.Float64()*0.10)),
			strconv.Itoa(s.leadTimeTarget),
			ftoa(defectRate),
			weightedCompliance(rng, 0.92),
			weightedCompliance(rng, 0.95),
		})
	}

	inventoryRows := [][]string{{"product_id", "current_stock", "safety_stock", "eoq", "rop", "avg_demand"}}
	for _, p := range products {
		safety := 50 + rng.Intn(250)
		avgDemand := 20 + rng.Float64()*60
		leadTime := 7 + rng.Intn(14)
		rop := avgDemand*float64(leadTime) + float64(safety)

		inventoryRows = append(inventoryRows, []string{
			p.id,
			strconv.Itoa(200 + rng.Intn(2800)),
			strconv.Itoa(safety),
			strconv.Itoa(200 + rng.Intn(600)),
			ftoa(rop),
			ftoa(avgDemand),
		})
	}

	files := map[string][][]string{
		"orders.csv":    orderRows,
		"inventory.csv": inventoryRows,
		"products.csv":  productRows,
		"suppliers.csv": supplierRows,
	}
	for name, rows := range files {
		if err := writeCSV(filepath.Join(dir, name), rows); err != nil {
			return err
		}
		log.Printf("Wrote %s (%d rows)", name, len(rows)-1)
	}

	return nil
}

func weightedClass(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.2:
		return "A"
	case r < 0.5:
		return "B"
	default:
		return "C"
	}
}

func weightedCompliance(rng *rand.Rand, pCompliant float64) string {
	if rng.Float64() < pCompliant {
		return "Compliant"
	}
	return "Non-Compliant"
}

func ftoa(v float64) string {
	return strconv.FormatFloat(math.Round(v*10000)/10000, 'f', -1, 64)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
