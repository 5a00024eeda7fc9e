package efatura

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// ── Reglas de extracción ──────────────────────────────────────────────────────
//
// Las respuestas del proveedor y los documentos UBL-TR no son consistentes: un mismo
// dato puede venir con o sin prefijo, envuelto en un elemento de texto extra, como
// atributo "value", o faltar. Cada campo se describe con una lista ordenada de
// estrategias; gana el primer valor no vacío. Todas las búsquedas son por nombre local.

// Strategy obtiene un valor a partir de un elemento de alcance. "" = no encontrado.
type Strategy func(scope *etree.Element) string

// Rule campo con sus estrategias en orden de preferencia.
type Rule struct {
	Field      string
	Strategies []Strategy
	Mandatory  bool
}

// Apply devuelve el primer valor no vacío.
func (r Rule) Apply(scope *etree.Element) string {
	if scope == nil {
		return ""
	}
	for _, s := range r.Strategies {
		if v := strings.TrimSpace(s(scope)); v != "" {
			return v
		}
	}
	return ""
}

// Extracted valores por campo.
type Extracted map[string]string

// Extract aplica las reglas; devuelve además los campos obligatorios ausentes.
func Extract(scope *etree.Element, rules ...Rule) (Extracted, []string) {
	out := make(Extracted, len(rules))
	var missing []string
	for _, r := range rules {
		v := r.Apply(scope)
		if v == "" && r.Mandatory {
			missing = append(missing, r.Field)
		}
		out[r.Field] = v
	}
	return out, missing
}

func (e Extracted) String(field string) string { return e[field] }

// Int 0 si falta o no es numérico.
func (e Extracted) Int(field string) int {
	n, _ := strconv.Atoi(e[field])
	return n
}

// IntPtr nil si falta o no es numérico.
func (e Extracted) IntPtr(field string) *int {
	n, err := strconv.Atoi(e[field])
	if err != nil {
		return nil
	}
	return &n
}

// Bool acepta true/false/1/0; ok=false si falta.
func (e Extracted) Bool(field string) (value, ok bool) {
	switch strings.ToLower(e[field]) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	default:
		return false, false
	}
}

// Decimal cero si falta o no es numérico.
func (e Extracted) Decimal(field string) decimal.Decimal {
	d, err := decimal.NewFromString(e[field])
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Date acepta yyyy-MM-dd y las variantes con hora; zero si falta.
func (e Extracted) Date(field string) time.Time {
	return parseDate(e[field])
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano, "2006-01-02T15:04:05", time.DateTime, "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ── Estrategias ───────────────────────────────────────────────────────────────

// Tag texto del primer descendiente con ese nombre local.
func Tag(local string) Strategy {
	return func(scope *etree.Element) string { return textOf(findFirst(scope, local)) }
}

// Child texto siguiendo una cadena de hijos directos desde el alcance.
func Child(path ...string) Strategy {
	return func(scope *etree.Element) string { return textOf(childPath(scope, path...)) }
}

// Path busca cada descendiente con path[0] y sigue hijos directos path[1:]; primer texto no vacío.
func Path(path ...string) Strategy {
	return func(scope *etree.Element) string {
		for _, start := range findAll(scope, path[0]) {
			if v := textOf(childPath(start, path[1:]...)); v != "" {
				return v
			}
		}
		return ""
	}
}

// ChildAttr atributo del elemento al final de una cadena de hijos directos.
func ChildAttr(attr string, path ...string) Strategy {
	return func(scope *etree.Element) string { return attrValue(childPath(scope, path...), attr) }
}

// Attr atributo del primer descendiente con ese nombre local.
func Attr(local, attr string) Strategy {
	return func(scope *etree.Element) string { return attrValue(findFirst(scope, local), attr) }
}

// TagWithAttr texto del primer descendiente cuyo atributo coincide (sin distinguir mayúsculas).
func TagWithAttr(local, attr, value string) Strategy {
	return func(scope *etree.Element) string {
		for _, el := range findAll(scope, local) {
			if strings.EqualFold(attrValue(el, attr), value) {
				if v := textOf(el); v != "" {
					return v
				}
			}
		}
		return ""
	}
}

// Within aplica s dentro del primer descendiente llamado container.
func Within(container string, s Strategy) Strategy {
	return func(scope *etree.Element) string {
		el := findFirst(scope, container)
		if el == nil {
			return ""
		}
		return s(el)
	}
}

// Default valor fijo; va al final de la lista.
func Default(v string) Strategy {
	return func(*etree.Element) string { return v }
}

// ── Navegación por nombre local ───────────────────────────────────────────────

// findFirst primer descendiente (preorden) con nombre local; no incluye a scope.
func findFirst(scope *etree.Element, local string) *etree.Element {
	if scope == nil {
		return nil
	}
	for _, c := range scope.ChildElements() {
		if c.Tag == local {
			return c
		}
		if f := findFirst(c, local); f != nil {
			return f
		}
	}
	return nil
}

// findAll todos los descendientes con nombre local, en preorden.
func findAll(scope *etree.Element, local string) []*etree.Element {
	if scope == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range scope.ChildElements() {
		if c.Tag == local {
			out = append(out, c)
		}
		out = append(out, findAll(c, local)...)
	}
	return out
}

// child primer hijo directo con nombre local.
func child(el *etree.Element, local string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if c.Tag == local {
			return c
		}
	}
	return nil
}

// children hijos directos con nombre local.
func children(el *etree.Element, local string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == local {
			out = append(out, c)
		}
	}
	return out
}

func childPath(el *etree.Element, path ...string) *etree.Element {
	for _, p := range path {
		el = child(el, p)
		if el == nil {
			return nil
		}
	}
	return el
}

// textOf texto del elemento. xsi:nil="true" cuenta como vacío; un elemento sin texto con un
// único hijo se trata como envoltorio; como último recurso se usa el atributo "value".
func textOf(el *etree.Element) string {
	if el == nil {
		return ""
	}
	if strings.EqualFold(attrValue(el, "nil"), "true") {
		return ""
	}
	if t := strings.TrimSpace(el.Text()); t != "" {
		return t
	}
	if kids := el.ChildElements(); len(kids) == 1 {
		if t := textOf(kids[0]); t != "" {
			return t
		}
	}
	return strings.TrimSpace(attrValue(el, "value"))
}

// attrValue atributo por nombre local, ignorando el prefijo.
func attrValue(el *etree.Element, key string) string {
	if el == nil {
		return ""
	}
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// ── SOAP Fault ────────────────────────────────────────────────────────────────

// faultMessage detecta un Fault SOAP 1.1/1.2 y devuelve su descripción.
func faultMessage(root *etree.Element) (string, bool) {
	fault := root
	if fault.Tag != "Fault" {
		fault = findFirst(root, "Fault")
	}
	if fault == nil {
		return "", false
	}
	msg := firstNonEmpty(
		textOf(findFirst(fault, "faultstring")),
		Path("Reason", "Text")(fault),
		textOf(findFirst(fault, "Reason")),
		Within("ExceptionDetail", Child("Message"))(fault),
		Within("detail", Tag("Message"))(fault),
		Within("Detail", Tag("Message"))(fault),
	)
	if msg == "" {
		msg = "SOAP Fault sin descripción"
	}
	if code := firstNonEmpty(textOf(findFirst(fault, "faultcode")), Path("Code", "Value")(fault)); code != "" {
		msg = "[" + code + "] " + msg
	}
	return msg, true
}
