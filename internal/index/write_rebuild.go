package index

import (
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"tidemark/internal/domain/content"
)

// Rebuild 全量重建：清空所有桶，把当前文档集写回去。
func (s *Store) Rebuild(contents []*content.Content) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_ = tx.DeleteBucket(bMeta)
		_ = tx.DeleteBucket(bIdxDate)
		_ = tx.DeleteBucket(bIdxTag)
		_ = tx.DeleteBucket(bIdxAuthor)
		_ = tx.DeleteBucket(bIdxStream)
		_ = tx.DeleteBucket(bIdxArchive)

		metaB, _ := tx.CreateBucket(bMeta)
		dateB, _ := tx.CreateBucket(bIdxDate)
		tagB, _ := tx.CreateBucket(bIdxTag)
		authorB, _ := tx.CreateBucket(bIdxAuthor)
		streamB, _ := tx.CreateBucket(bIdxStream)
		archiveB, _ := tx.CreateBucket(bIdxArchive)

		for _, c := range contents {
			if strings.TrimSpace(c.Slug) == "" {
				continue
			}
			cb, err := json.Marshal(c)
			if err != nil {
				return err
			}
			if err := metaB.Put([]byte(c.Slug), cb); err != nil {
				return err
			}

			key := makeTimeSlugKey(c.Date, c.Slug)
			if err := dateB.Put(key, []byte{1}); err != nil {
				return err
			}

			for _, tag := range c.Tags {
				if tag == "" {
					continue
				}
				sb, err := tagB.CreateBucketIfNotExists([]byte(tag))
				if err != nil {
					return err
				}
				if err := sb.Put(key, []byte{1}); err != nil {
					return err
				}
			}

			for _, author := range c.Authors {
				if author == "" {
					continue
				}
				sb, err := authorB.CreateBucketIfNotExists([]byte(author))
				if err != nil {
					return err
				}
				if err := sb.Put(key, []byte{1}); err != nil {
					return err
				}
			}

			if stream := strings.TrimSpace(c.Stream); stream != "" {
				sb, err := streamB.CreateBucketIfNotExists([]byte(stream))
				if err != nil {
					return err
				}
				if err := sb.Put(key, []byte{1}); err != nil {
					return err
				}
			}

			if !c.Date.IsZero() {
				year := c.Date.Format("2006")
				sb, err := archiveB.CreateBucketIfNotExists([]byte(year))
				if err != nil {
					return err
				}
				if err := sb.Put(key, []byte{1}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
