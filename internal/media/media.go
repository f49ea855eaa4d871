// Package media envuelve el host remoto de imágenes. Las subidas son
// fatales para la operación que las pidió; los borrados son best-effort
// y nunca se propagan.
package media

import (
	"context"

	"riftory-api/internal/models"
)

// Store es el contrato del adaptador de medios. Los servicios dependen
// de esta interfaz, no del cliente Cloudinary concreto.
type Store interface {
	// Upload sube una imagen embebida (data URI base64) a la carpeta dada
	Upload(ctx context.Context, image, folder string) (models.Image, error)

	// UploadBatch sube varias imágenes en paralelo preservando el orden.
	// Todo-o-nada: el primer fallo aborta el batch completo.
	UploadBatch(ctx context.Context, images []string, folder string) ([]models.Image, error)

	// Delete borra por publicId; cualquier fallo se loguea y se traga
	Delete(ctx context.Context, publicID string)

	// DeleteBatch borra en paralelo; siempre termina bien
	DeleteBatch(ctx context.Context, publicIDs []string)
}
