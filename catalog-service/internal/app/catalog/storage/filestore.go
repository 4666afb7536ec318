package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// sanitizer вырезает из имени файла пробелы, двоеточия и обратные слеши
var sanitizer = strings.NewReplacer(" ", "", ":", "", "\\", "")

// UniqueName генерирует уникальное имя файла вида {uuid}-{очищенное имя}
// Случайный префикс исключает коллизии при одновременной загрузке
// файлов с одинаковыми исходными именами
func UniqueName(original string) string {
	return uuid.NewString() + "-" + sanitizer.Replace(original)
}

// StoredFile - файл в каталоге загрузок
type StoredFile struct {
	Name    string
	ModTime time.Time
}

// PhotoStore сохраняет загруженные фото продуктов на локальном диске
// Каталог общий и не защищён блокировками: уникальность имён
// обеспечивается только uuid-префиксом
type PhotoStore struct {
	dir string
}

func NewPhotoStore(dir string) *PhotoStore {
	return &PhotoStore{dir: dir}
}

func (s *PhotoStore) Dir() string {
	return s.dir
}

// Save записывает файл в каталог загрузок
// Каталог создается рекурсивно перед каждой записью (идемпотентно)
// При ошибке копирования частично записанный файл удаляется
func (s *PhotoStore) Save(filename string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return n, nil
}

// Remove удаляет файл из каталога загрузок
// Отсутствующий файл не считается ошибкой
func (s *PhotoStore) Remove(filename string) error {
	if filename == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}

// ListFiles возвращает файлы каталога загрузок с временем модификации
// Используется уборщиком осиротевших фото
func (s *PhotoStore) ListFiles() ([]StoredFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read uploads dir: %w", err)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Файл исчез между ReadDir и Info
			continue
		}
		files = append(files, StoredFile{Name: e.Name(), ModTime: info.ModTime()})
	}

	return files, nil
}
