package processor

import (
	"context"
	"time"

	"catalogo/catalog-service/internal/app/catalog/storage"
	"catalogo/pkg/logger"
	"catalogo/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// FotoLister возвращает имена файлов, на которые ссылаются продукты
type FotoLister interface {
	DistinctFotos(ctx context.Context) ([]string, error)
}

// PhotoSweeper периодически удаляет из каталога загрузок файлы,
// на которые не ссылается ни один продукт: такие файлы остаются
// после падения между записью файла и сохранением документа
type PhotoSweeper struct {
	cron     *cron.Cron
	products FotoLister
	photos   *storage.PhotoStore
	grace    time.Duration
}

// NewPhotoSweeper создает уборщик осиротевших фото
// grace - минимальный возраст файла для удаления, защищает
// загрузки, находящиеся в полёте между записью и сохранением
func NewPhotoSweeper(products FotoLister, photos *storage.PhotoStore, grace time.Duration) *PhotoSweeper {
	return &PhotoSweeper{
		cron:     cron.New(),
		products: products,
		photos:   photos,
		grace:    grace,
	}
}

// Start регистрирует задачу в cron и запускает планировщик
func (s *PhotoSweeper) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		removed, err := s.Sweep(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Photo sweep failed")
			return
		}
		if removed > 0 {
			logger.Info().Int("removed", removed).Msg("Photo sweep completed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("Photo sweeper started")

	return nil
}

// Sweep выполняет один проход уборки и возвращает число удалённых файлов
func (s *PhotoSweeper) Sweep(ctx context.Context) (int, error) {
	fotos, err := s.products.DistinctFotos(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{}, len(fotos))
	for _, foto := range fotos {
		referenced[foto] = struct{}{}
	}

	files, err := s.photos.ListFiles()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.grace)
	removed := 0

	for _, file := range files {
		if _, ok := referenced[file.Name]; ok {
			continue
		}
		if file.ModTime.After(cutoff) {
			continue
		}

		if err := s.photos.Remove(file.Name); err != nil {
			logger.Warn().Err(err).Str("file", file.Name).Msg("Failed to remove orphaned photo")
			continue
		}

		metrics.SweeperFilesRemoved.Inc()
		removed++
	}

	return removed, nil
}

// Stop останавливает планировщик и дожидается завершения задач
func (s *PhotoSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
