package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimaryImageURL(t *testing.T) {
	p := Product{}
	assert.Equal(t, "", p.PrimaryImageURL())

	p.Images = []ProductImage{
		{ImageURL: "/uploads/products/first.jpg"},
		{ImageURL: "/uploads/products/second.jpg"},
	}
	assert.Equal(t, "/uploads/products/first.jpg", p.PrimaryImageURL())

	p.Images[1].IsPrimary = true
	assert.Equal(t, "/uploads/products/second.jpg", p.PrimaryImageURL())
}
