package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestProductFilter_Query_NormalPartition(t *testing.T) {
	query := ProductFilter{}.query()

	assert.Equal(t, true, query["isActive"], "sólo documentos activos")
	assert.Equal(t, bson.M{"$ne": true}, query["isUpsideDown"],
		"documentos viejos sin el campo cuentan como normales")
	assert.NotContains(t, query, "category")
	assert.NotContains(t, query, "deviceId")
}

func TestProductFilter_Query_UpsideDownPartition(t *testing.T) {
	query := ProductFilter{UpsideDown: true}.query()

	assert.Equal(t, true, query["isActive"])
	assert.Equal(t, true, query["isUpsideDown"])
}

func TestProductFilter_Query_ExactlyOnePartition(t *testing.T) {
	// Ambas variantes siempre incluyen el predicado de partición: un
	// listado nunca mezcla productos normales con el Upside Down
	for _, upsideDown := range []bool{false, true} {
		query := ProductFilter{UpsideDown: upsideDown}.query()
		assert.Contains(t, query, "isUpsideDown")
	}
}

func TestProductFilter_Query_CategoryAndDevice(t *testing.T) {
	query := ProductFilter{Category: "Electronics", DeviceID: "dev1"}.query()

	assert.Equal(t, "Electronics", query["category"])
	assert.Equal(t, "dev1", query["deviceId"])
	assert.Equal(t, true, query["isActive"])
	assert.Equal(t, bson.M{"$ne": true}, query["isUpsideDown"])
}
