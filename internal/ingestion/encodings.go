package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	errInvalidUTF8   = errors.New("conteúdo não é UTF-8 válido")
	errUnmappedBytes = errors.New("bytes sem mapeamento na codificação")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoding é uma tentativa de decodificação da cadeia de fallback
type Encoding struct {
	Name   string
	Decode func(raw []byte) (string, error)
}

// DefaultEncodings é a ordem usada quando nada é configurado
var DefaultEncodings = []string{"utf-8", "windows-1252", "iso-8859-1"}

var knownEncodings = map[string]func(raw []byte) (string, error){
	"utf-8":        decodeUTF8,
	"utf8":         decodeUTF8,
	"windows-1252": decodeCharmap(charmap.Windows1252),
	"cp1252":       decodeCharmap(charmap.Windows1252),
	"iso-8859-1":   decodeCharmap(charmap.ISO8859_1),
	"latin1":       decodeCharmap(charmap.ISO8859_1),
	"iso-8859-15":  decodeCharmap(charmap.ISO8859_15),
}

// LookupEncodings resolve os nomes configurados na ordem dada
func LookupEncodings(names []string) ([]Encoding, error) {
	if len(names) == 0 {
		names = DefaultEncodings
	}

	encodings := make([]Encoding, 0, len(names))
	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		decode, ok := knownEncodings[normalized]
		if !ok {
			return nil, fmt.Errorf("codificação não suportada: %s", name)
		}
		encodings = append(encodings, Encoding{Name: normalized, Decode: decode})
	}

	if len(encodings) == 0 {
		return nil, errors.New("nenhuma codificação configurada")
	}

	return encodings, nil
}

func decodeUTF8(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return "", errInvalidUTF8
	}
	return string(raw), nil
}

func decodeCharmap(cm *charmap.Charmap) func(raw []byte) (string, error) {
	return func(raw []byte) (string, error) {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		if bytes.ContainsRune(decoded, utf8.RuneError) {
			return "", errUnmappedBytes
		}
		return string(decoded), nil
	}
}
