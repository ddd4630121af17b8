// Package catalog holds the static rate, add-on and promo code tables.
package catalog

import (
	"sort"
	"strings"

	"biliran-rental-backend/internal/domain"
)

// Add-on flag names accepted on a booking request.
const (
	AddonGPS       = "gps"
	AddonChildSeat = "childSeat"
	AddonInsurance = "insurance"
	AddonDriver    = "driver"
	AddonDelivery  = "delivery"
)

// Promo codes and their percent discount.
const (
	PromoBiliran10 = "BILIRAN10"
	PromoWelcome5  = "WELCOME5"
)

var defaultClassRates = map[domain.VehicleClass]int64{
	domain.VehicleClassSedan:      2000,
	domain.VehicleClassSUV:        3000,
	domain.VehicleClassVan:        3500,
	domain.VehicleClassPickup:     2800,
	domain.VehicleClassMotorcycle: 600,
}

// Add-ons are a fixed price per booking, not per day.
var defaultAddonPrices = map[string]int64{
	AddonGPS:       300,
	AddonChildSeat: 250,
	AddonInsurance: 800,
	AddonDriver:    1500,
	AddonDelivery:  500,
}

var defaultPromoPercents = map[string]int64{
	PromoBiliran10: 10,
	PromoWelcome5:  5,
}

type Catalog struct {
	classRates    map[domain.VehicleClass]int64
	addonPrices   map[string]int64
	promoPercents map[string]int64
}

// New returns the built-in tables. extraPromos adds or overrides codes;
// percents outside 1..100 are ignored.
func New(extraPromos map[string]int64) *Catalog {
	c := &Catalog{
		classRates:    make(map[domain.VehicleClass]int64, len(defaultClassRates)),
		addonPrices:   make(map[string]int64, len(defaultAddonPrices)),
		promoPercents: make(map[string]int64, len(defaultPromoPercents)+len(extraPromos)),
	}
	for k, v := range defaultClassRates {
		c.classRates[k] = v
	}
	for k, v := range defaultAddonPrices {
		c.addonPrices[k] = v
	}
	for k, v := range defaultPromoPercents {
		c.promoPercents[k] = v
	}
	for code, pct := range extraPromos {
		if pct < 1 || pct > 100 {
			continue
		}
		c.promoPercents[normalizeCode(code)] = pct
	}
	return c
}

// ClassRate is the fallback daily rate for a vehicle class.
func (c *Catalog) ClassRate(class domain.VehicleClass) (int64, bool) {
	rate, ok := c.classRates[class]
	return rate, ok
}

func (c *Catalog) AddonPrice(name string) (int64, bool) {
	price, ok := c.addonPrices[name]
	return price, ok
}

// AddonNames lists every known add-on in a stable order.
func (c *Catalog) AddonNames() []string {
	names := make([]string, 0, len(c.addonPrices))
	for name := range c.addonPrices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PromoPercent looks up a promo code, case-insensitively. Unknown codes
// return 0 and false.
func (c *Catalog) PromoPercent(code string) (int64, bool) {
	pct, ok := c.promoPercents[normalizeCode(code)]
	return pct, ok
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ClassRates returns a copy of the per-class fallback rates.
func (c *Catalog) ClassRates() map[domain.VehicleClass]int64 {
	out := make(map[domain.VehicleClass]int64, len(c.classRates))
	for k, v := range c.classRates {
		out[k] = v
	}
	return out
}

// AddonPrices returns a copy of the add-on price table.
func (c *Catalog) AddonPrices() map[string]int64 {
	out := make(map[string]int64, len(c.addonPrices))
	for k, v := range c.addonPrices {
		out[k] = v
	}
	return out
}
