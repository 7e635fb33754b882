package index

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"tidemark/internal/domain/content"
	domainerr "tidemark/internal/domain/errors"
)

type ListOptions struct {
	Page int
	Size int
}

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 1000 {
		size = 1000
	}
	return page, size
}

func (s *Store) Get(slug string) (*content.Content, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domainerr.ErrNotFound
	}
	var c content.Content
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return domainerr.ErrNotFound
		}
		v := b.Get([]byte(slug))
		if v == nil {
			return domainerr.ErrNotFound
		}
		return json.Unmarshal(v, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List 按日期降序列出全站文档。
func (s *Store) List(opt ListOptions) ([]*content.Content, error) {
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)

	var out []*content.Content
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bIdxDate)
		metaB := tx.Bucket(bMeta)
		if idx == nil || metaB == nil {
			return nil
		}

		skip := (opt.Page - 1) * opt.Size
		cur := idx.Cursor()

		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromTimeSlugKey(k)
			if slug == "" {
				continue
			}
			v := metaB.Get([]byte(slug))
			if v == nil {
				continue
			}
			var c content.Content
			if err := json.Unmarshal(v, &c); err != nil {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			out = append(out, &c)
			if len(out) >= opt.Size {
				break
			}
		}
		return nil
	})
	return out, err
}

// ListByGroup 列出某个 kind 下单个 key 的文档，日期降序。
func (s *Store) ListByGroup(kind content.Kind, key string, opt ListOptions) ([]*content.Content, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	parent := groupBucket(kind)
	if parent == nil {
		return nil, nil
	}
	opt.Page, opt.Size = normalizePaging(opt.Page, opt.Size)

	var out []*content.Content
	err := s.db.View(func(tx *bolt.Tx) error {
		parentB := tx.Bucket(parent)
		metaB := tx.Bucket(bMeta)
		if parentB == nil || metaB == nil {
			return nil
		}
		sb := parentB.Bucket([]byte(key))
		if sb == nil {
			return nil
		}

		skip := (opt.Page - 1) * opt.Size
		cur := sb.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			slug := slugFromTimeSlugKey(k)
			if slug == "" {
				continue
			}
			v := metaB.Get([]byte(slug))
			if v == nil {
				continue
			}
			var c content.Content
			if err := json.Unmarshal(v, &c); err != nil {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			out = append(out, &c)
			if len(out) >= opt.Size {
				break
			}
		}
		return nil
	})
	return out, err
}

type GroupStat struct {
	Key   string
	Count int
}

// GroupStats 统计某个 kind 下每个 key 的文档数。
func (s *Store) GroupStats(kind content.Kind) ([]GroupStat, error) {
	parent := groupBucket(kind)
	if parent == nil {
		return nil, nil
	}
	var stats []GroupStat
	err := s.db.View(func(tx *bolt.Tx) error {
		parentB := tx.Bucket(parent)
		if parentB == nil {
			return nil
		}
		return parentB.ForEachBucket(func(k []byte) error {
			sb := parentB.Bucket(k)
			if sb == nil {
				return nil
			}
			stats = append(stats, GroupStat{
				Key:   string(k),
				Count: sb.Stats().KeyN,
			})
			return nil
		})
	})
	return stats, err
}
