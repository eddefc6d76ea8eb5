package gds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLYP = `<?xml version="1.0" encoding="utf-8"?>
<layer-properties>
 <properties>
  <name>Wafer Outline</name>
  <source>5/0@1</source>
 </properties>
 <properties>
  <name>usable area</name>
  <source>6/0@1</source>
 </properties>
 <properties>
  <name>DIE</name>
  <source>7/1@1</source>
 </properties>
 <properties>
  <name>unrelated</name>
  <source>99/9@1</source>
 </properties>
</layer-properties>`

func TestReadLYP(t *testing.T) {
	props, err := ReadLYP(strings.NewReader(sampleLYP))
	require.NoError(t, err)
	require.Len(t, props, 4)

	assert.Equal(t, "Wafer Outline", props[0].Name)
	assert.Equal(t, int16(5), props[0].Layer)
	assert.Equal(t, int16(0), props[0].Datatype)
	assert.Equal(t, int16(7), props[2].Layer)
	assert.Equal(t, int16(1), props[2].Datatype)
}

func TestReadLYPBadSource(t *testing.T) {
	_, err := ReadLYP(strings.NewReader(`<layer-properties><properties><name>x</name><source>bogus</source></properties></layer-properties>`))
	assert.Error(t, err)
}

func TestApplyProperties(t *testing.T) {
	props, err := ReadLYP(strings.NewReader(sampleLYP))
	require.NoError(t, err)

	cfg := DefaultLayerConfig().ApplyProperties(props)

	assert.Equal(t, LayerAssignment{Layer: 5, Datatype: 0}, cfg.WaferOutline)
	assert.Equal(t, LayerAssignment{Layer: 6, Datatype: 0}, cfg.UsableOutline)
	assert.Equal(t, LayerAssignment{Layer: 7, Datatype: 1}, cfg.Die)
}

func TestApplyPropertiesKeepsDefaultsForUnmatched(t *testing.T) {
	cfg := DefaultLayerConfig().ApplyProperties([]LayerProperty{{Name: "metal1", Layer: 30}})
	assert.Equal(t, DefaultLayerConfig(), cfg)
}
