package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"riftory-api/internal/apperr"
	"riftory-api/internal/models"
)

const (
	defaultBaseURL = "https://api.cloudinary.com/v1_1"

	// Transformación fija: límite 800x800 sin recortar ni agrandar,
	// calidad y formato negociados automáticamente
	uploadTransformation = "w_800,h_800,c_limit/q_auto:good/f_auto"

	uploadTimeout = 60 * time.Second
)

// Cloudinary habla la API HTTP firmada de upload/destroy del host
type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	client    *http.Client
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("missing Cloudinary configuration")
	}
	return &Cloudinary{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: uploadTimeout},
	}, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sube una imagen base64 y retorna {url, publicId}
func (c *Cloudinary) Upload(ctx context.Context, image, folder string) (models.Image, error) {
	params := map[string]string{
		"folder":         folder,
		"timestamp":      strconv.FormatInt(time.Now().Unix(), 10),
		"transformation": uploadTransformation,
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("file", image)
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	var resp uploadResponse
	if err := c.post(ctx, c.endpoint("upload"), form, &resp); err != nil {
		zap.S().Errorw("[Cloudinary] Upload error", "folder", folder, "error", err)
		return models.Image{}, apperr.MediaUpload(err)
	}

	return models.Image{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

// UploadBatch sube en paralelo preservando el orden de entrada.
// El primer fallo cancela el resto y aborta el batch.
func (c *Cloudinary) UploadBatch(ctx context.Context, images []string, folder string) ([]models.Image, error) {
	return uploadAll(ctx, c, images, folder)
}

// Delete borra por publicId. Best-effort: el fallo se loguea, nunca
// bloquea la mutación de la entidad dueña.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}

	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	var resp struct {
		Result string `json:"result"`
	}
	if err := c.post(ctx, c.endpoint("destroy"), form, &resp); err != nil {
		zap.S().Warnw("[Cloudinary] Delete error", "publicId", publicID, "error", err)
		return
	}
	zap.S().Infow("[Cloudinary] Deleted image", "publicId", publicID, "result", resp.Result)
}

// DeleteBatch borra en paralelo; siempre resuelve sin error
func (c *Cloudinary) DeleteBatch(ctx context.Context, publicIDs []string) {
	var wg sync.WaitGroup
	for _, id := range publicIDs {
		wg.Add(1)
		go func(publicID string) {
			defer wg.Done()
			c.Delete(ctx, publicID)
		}(id)
	}
	wg.Wait()
}

// sign firma los parámetros por SHA-1: claves ordenadas, k=v unidas
// por & y el api_secret concatenado al final
func (c *Cloudinary) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

func (c *Cloudinary) endpoint(action string) string {
	return fmt.Sprintf("%s/%s/image/%s", c.baseURL, c.cloudName, action)
}

func (c *Cloudinary) post(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var ur uploadResponse
		if json.Unmarshal(body, &ur) == nil && ur.Error.Message != "" {
			return fmt.Errorf("cloudinary: %s", ur.Error.Message)
		}
		return fmt.Errorf("cloudinary: unexpected status %d", resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}

// uploadAll implementa el fan-out concurrente con join que aborta al
// primer fallo, preservando el orden de las imágenes.
func uploadAll(ctx context.Context, store Store, images []string, folder string) ([]models.Image, error) {
	if len(images) == 0 {
		return []models.Image{}, nil
	}

	type result struct {
		idx int
		img models.Image
		err error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan result, len(images))
	for i, data := range images {
		go func(idx int, data string) {
			img, err := store.Upload(ctx, data, folder)
			ch <- result{idx: idx, img: img, err: err}
		}(i, data)
	}

	uploaded := make([]models.Image, len(images))
	for range images {
		r := <-ch
		if r.err != nil {
			cancel()
			return nil, r.err
		}
		uploaded[r.idx] = r.img
	}
	return uploaded, nil
}
