package efatura

import "strings"

// DefaultUnitName se usa cuando el unitCode no está en el catálogo.
const DefaultUnitName = "Adet"

// Códigos UN/ECE Rec 20 usados en InvoicedQuantity/@unitCode (Kod Listeleri GİB).
var unitNames = map[string]string{
	"C62": "Adet",
	"NIU": "Adet",
	"H87": "Adet",
	"EA":  "Adet",
	"PA":  "Paket",
	"BX":  "Kutu",
	"PR":  "Çift",
	"DZN": "Düzine",
	"SET": "Set",
	"KGM": "Kilogram",
	"GRM": "Gram",
	"TNE": "Ton",
	"LTR": "Litre",
	"MLT": "Mililitre",
	"MTQ": "Metreküp",
	"MTR": "Metre",
	"CMT": "Santimetre",
	"MMT": "Milimetre",
	"KTM": "Kilometre",
	"MTK": "Metrekare",
	"KWH": "Kilovatsaat",
	"HUR": "Saat",
	"DAY": "Gün",
	"MON": "Ay",
	"ANN": "Yıl",
}

// UnitName nombre visible del código de unidad; DefaultUnitName si se desconoce.
func UnitName(code string) string {
	if name, ok := unitNames[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return DefaultUnitName
}
