package utils

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// codeAlphabet excludes visually ambiguous characters (I, O, 0, 1, L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateLoginCode returns a random login code of the given length drawn
// from the restricted alphabet.
func GenerateLoginCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// NewPublicID returns a nanoid used as the externally visible id of
// publicly created entities.
func NewPublicID() (string, error) {
	return gonanoid.New()
}

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Daniel", "Karen",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

var companies = []string{
	"Northwind Traders", "Contoso", "Fabrikam", "Adventure Works",
	"Tailspin Toys", "Wide World Importers", "Proseware", "Litware",
}

// RandomName returns a random first/last name pair for seed fixtures.
func RandomName() (string, string) {
	return firstNames[mrand.Intn(len(firstNames))], lastNames[mrand.Intn(len(lastNames))]
}

// RandomCompany returns a random company name for seed fixtures.
func RandomCompany() string {
	return companies[mrand.Intn(len(companies))]
}
