package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalogo/client-service/internal/app/client/entity"
	"catalogo/client-service/internal/app/client/infrastructure"

	"github.com/stretchr/testify/assert"
)

func TestFindAll_DecodesProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/productos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]entity.Product{
			{ID: "68b1", Nombre: "Teclado", Precio: 29.9},
			{ID: "68b2", Nombre: "Monitor", Precio: 199.0},
		})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	products, err := client.FindAll(context.Background())

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Teclado", products[0].Nombre)
}

func TestFindByID_NotFoundReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	product, err := client.FindByID(context.Background(), "missing")

	assert.Nil(t, product)

	var statusErr *infrastructure.StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "404 Not Found from GET")
}

func TestSave_SendsJSONAndDecodesCreated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var received entity.Product
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.Equal(t, "Teclado", received.Nombre)

		received.ID = "68b3"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(received)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	created, err := client.Save(context.Background(), &entity.Product{Nombre: "Teclado", Precio: 29.9})

	assert.NoError(t, err)
	assert.Equal(t, "68b3", created.ID)
}

func TestSave_BadRequestKeepsBody(t *testing.T) {
	validationBody := `{"errors":["El campo nombre no puede estar vacío"],"status":400}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, validationBody)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	created, err := client.Save(context.Background(), &entity.Product{Precio: 29.9})

	assert.Nil(t, created)

	var statusErr *infrastructure.StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, validationBody, string(statusErr.Body))
}

func TestDelete_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/productos/68b4", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	assert.NoError(t, client.Delete(context.Background(), "68b4"))
}

func TestUpload_SendsMultipartFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/productos/upload/68b5", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		file, header, err := r.FormFile("file")
		assert.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "foto.jpg", header.Filename)
		content, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Equal(t, "imagen", string(content))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entity.Product{ID: "68b5", Nombre: "Camara", Foto: "uuid-foto.jpg"})
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL)
	product, err := client.Upload(context.Background(), "68b5", "foto.jpg", strings.NewReader("imagen"))

	assert.NoError(t, err)
	assert.Equal(t, "uuid-foto.jpg", product.Foto)
}
