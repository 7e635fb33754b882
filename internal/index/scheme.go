package index

import "tidemark/internal/domain/content"

var (
	bMeta    = []byte("meta")     // slug -> contentBytes
	bIdxDate = []byte("idx_date") // 全站按日期倒排

	bIdxTag     = []byte("idx_tag")     // tag -> sub-bucket
	bIdxAuthor  = []byte("idx_author")  // author -> sub-bucket
	bIdxStream  = []byte("idx_stream")  // stream -> sub-bucket
	bIdxArchive = []byte("idx_archive") // year -> sub-bucket
)

func groupBucket(kind content.Kind) []byte {
	switch kind {
	case content.KindTag:
		return bIdxTag
	case content.KindAuthor:
		return bIdxAuthor
	case content.KindStream:
		return bIdxStream
	case content.KindArchive:
		return bIdxArchive
	}
	return nil
}
