package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 10
)

// GenerateID gera o identificador curto de uma execução de ingestão (logs e relatório)
func GenerateID() (string, error) {
	return gonanoid.Generate(idAlphabet, idLength)
}
