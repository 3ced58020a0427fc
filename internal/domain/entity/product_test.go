package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenAttributes(t *testing.T) {
	resolve := func(termID string) string {
		terms := map[string]string{"t1": "Green", "t2": "Blue"}
		return terms[termID]
	}

	attrs := []Attribute{
		{Label: "Color", Values: []AttributeValue{
			{Kind: AttributeKindTerm, TermID: "t1"},
			{Kind: AttributeKindTerm, TermID: "t2"},
		}},
		{Label: "Material", Values: []AttributeValue{
			{Kind: AttributeKindLiteral, Value: "Nylon"},
		}},
	}

	assert.Equal(t, "Color: Green, Blue; Material: Nylon", FlattenAttributes(attrs, resolve))
}

func TestFlattenAttributesSkipsUnresolvable(t *testing.T) {
	attrs := []Attribute{
		{Label: "Color", Values: []AttributeValue{
			{Kind: AttributeKindTerm, TermID: "missing"},
		}},
		{Label: "Size", Values: []AttributeValue{
			{Kind: AttributeKindLiteral, Value: "L"},
		}},
	}

	// 未知词条解析为空串，整个属性段被丢弃
	got := FlattenAttributes(attrs, func(string) string { return "" })
	assert.Equal(t, "Size: L", got)
}

func TestFlattenAttributesNilResolver(t *testing.T) {
	attrs := []Attribute{
		{Label: "Color", Values: []AttributeValue{
			{Kind: AttributeKindTerm, TermID: "t1"},
			{Kind: AttributeKindLiteral, Value: "Black"},
		}},
	}

	assert.Equal(t, "Color: Black", FlattenAttributes(attrs, nil))
}

func TestFlattenAttributesEmpty(t *testing.T) {
	assert.Equal(t, "", FlattenAttributes(nil, nil))
	assert.Equal(t, "", FlattenAttributes([]Attribute{{Label: "Color"}}, nil))
}

func TestIsValidDescriptionField(t *testing.T) {
	assert.True(t, IsValidDescriptionField(DescriptionFieldShort))
	assert.True(t, IsValidDescriptionField(DescriptionFieldLong))
	assert.False(t, IsValidDescriptionField(DescriptionField("medium")))
}
