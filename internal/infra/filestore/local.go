// Package filestore хранилище файлов изображений услуг на локальном диске.
// Загрузка файлов выполняется внешним слоем, здесь только удаление заменённых файлов.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrOutsideRoot путь указывает за пределы каталога хранилища
	ErrOutsideRoot = errors.New("filestore: path escapes storage root")
)

// Local хранилище в каталоге root
type Local struct {
	root string
}

// NewLocal создает хранилище. Пустой root отключает удаление файлов.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Remove удаляет файл относительно root. Отсутствующий файл не считается ошибкой.
func (l *Local) Remove(_ context.Context, path string) error {
	if l.root == "" || path == "" {
		return nil
	}

	full, err := l.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("filestore: remove %s: %w", path, err)
	}
	return nil
}

func (l *Local) resolve(path string) (string, error) {
	root, err := filepath.Abs(l.root)
	if err != nil {
		return "", fmt.Errorf("filestore: resolve root: %w", err)
	}

	full := filepath.Join(root, filepath.Clean("/"+path))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}
