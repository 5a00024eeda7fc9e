package efatura

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ucarion/c14n"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

const defaultMaxEntrySize = 32 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document resultado completo de decodificar un payload del proveedor.
type Document struct {
	Invoice  *entity.RemoteInvoice
	XML      []byte
	FileName string // entrada del zip; "" si el XML vino sin comprimir
	Hash     string // SHA-256 hex del XML canonicalizado (C14N)
}

// DocumentCodec decodifica base64 → zip → UBL-TR. Sin estado: seguro para uso concurrente.
type DocumentCodec struct {
	maxEntrySize int64
}

// NewDocumentCodec construye el códec con el límite de descompresión por defecto.
func NewDocumentCodec() *DocumentCodec {
	return &DocumentCodec{maxEntrySize: defaultMaxEntrySize}
}

// Decode devuelve solo la factura parseada.
func (c *DocumentCodec) Decode(payload string) (*entity.RemoteInvoice, error) {
	doc, err := c.DecodeDocument(payload)
	if err != nil {
		return nil, err
	}
	return doc.Invoice, nil
}

// DecodeDocument decodifica, parsea y calcula el hash del documento.
func (c *DocumentCodec) DecodeDocument(payload string) (*Document, error) {
	xmlBytes, name, err := c.Unpack(payload)
	if err != nil {
		return nil, err
	}
	inv, err := ParseUBL(xmlBytes)
	if err != nil {
		return nil, err
	}
	return &Document{Invoice: inv, XML: xmlBytes, FileName: name, Hash: DocumentHash(xmlBytes)}, nil
}

// Unpack obtiene los bytes XML del payload:
//   - se eliminan todos los espacios; vacío o base64 inválido → ErrMalformedResponse;
//   - si es zip, la primera entrada *.xml (sin distinguir mayúsculas); entrada corrupta → ErrMalformedResponse;
//   - si no, el contenido como XML directo (BOM UTF-8 opcional + prólogo <?xml);
//   - ninguno de los dos → ErrParse.
func (c *DocumentCodec) Unpack(payload string) ([]byte, string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, payload)
	if cleaned == "" {
		return nil, "", fmt.Errorf("%w: payload vacío", domain.ErrMalformedResponse)
	}

	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(cleaned, "="))
		if err != nil {
			return nil, "", fmt.Errorf("%w: base64 inválido: %v", domain.ErrMalformedResponse, err)
		}
	}

	xmlBytes, name, found, err := c.fromZip(raw)
	if err != nil {
		return nil, "", err
	}
	if found {
		return xmlBytes, name, nil
	}
	if bare, ok := bareXML(raw); ok {
		return bare, "", nil
	}
	return nil, "", &domain.ParseError{Message: "el contenido no es un zip con XML ni un documento XML"}
}

// fromZip found=false si raw no es zip o no contiene ninguna entrada .xml.
func (c *DocumentCodec) fromZip(raw []byte) ([]byte, string, bool, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, "", false, nil
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", false, fmt.Errorf("%w: abrir %s: %v", domain.ErrMalformedResponse, f.Name, err)
		}
		data, err := io.ReadAll(io.LimitReader(rc, c.maxEntrySize+1))
		rc.Close()
		if err != nil {
			return nil, "", false, fmt.Errorf("%w: descomprimir %s: %v", domain.ErrMalformedResponse, f.Name, err)
		}
		if int64(len(data)) > c.maxEntrySize {
			return nil, "", false, fmt.Errorf("%w: %s supera %d bytes", domain.ErrMalformedResponse, f.Name, c.maxEntrySize)
		}
		return data, f.Name, true, nil
	}
	return nil, "", false, nil
}

func bareXML(raw []byte) ([]byte, bool) {
	b := bytes.TrimPrefix(raw, utf8BOM)
	if bytes.HasPrefix(bytes.TrimLeft(b, " \t\r\n"), []byte("<?xml")) {
		return b, true
	}
	return nil, false
}

// DocumentHash SHA-256 del XML en forma canónica; si no se puede canonicalizar, de los bytes crudos.
func DocumentHash(xmlBytes []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	dec.Entity = map[string]string{}
	dec.CharsetReader = charsetReader
	canonical, err := c14n.Canonicalize(dec)
	if err != nil || len(canonical) == 0 {
		canonical = xmlBytes
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// charsetReader codificaciones heredadas habituales en documentos turcos.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return input, nil
	case "windows-1254", "cp1254":
		return transform.NewReader(input, charmap.Windows1254.NewDecoder()), nil
	case "iso-8859-9", "latin5":
		return transform.NewReader(input, charmap.ISO8859_9.NewDecoder()), nil
	case "iso-8859-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado %q", label)
	}
}
