// Package meta extracts structured metadata about a treeish (tag or commit)
// from a cached repository and serializes it to a JSON document for
// downstream packaging tooling.
package meta

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/intel/obs-service-git-buildpackage/errors"
	"github.com/intel/obs-service-git-buildpackage/git"
)

// TagMeta is annotated-tag metadata plus any other annotated tags pointing at
// the same object.
type TagMeta struct {
	git.TagData
	Tags []*git.TagData `json:"tags"`
}

// CommitMeta is commit metadata plus the annotated tags pointing at the
// commit.
type CommitMeta struct {
	git.CommitData
	Tags []*git.TagData `json:"tags"`
}

// TreeishMeta is the full metadata document for a treeish. Tag is present
// only when the treeish names an annotated tag; Commit is present for tags
// and commits but not for raw tree or blob objects.
type TreeishMeta struct {
	Treeish string      `json:"treeish"`
	Tag     *TagMeta    `json:"tag,omitempty"`
	Commit  *CommitMeta `json:"commit,omitempty"`
}

// annotatedTags collects the annotated tags pointing at treeish, excluding
// treeish itself in case it is a tag.
func annotatedTags(repo *git.Repository, treeish string) ([]*git.TagData, error) {
	treeishSha, err := repo.RevParse(treeish)
	if err != nil {
		return nil, err
	}

	tags, err := repo.ListTags(treeish)
	if err != nil {
		return nil, err
	}

	info := []*git.TagData{}
	for _, tag := range tags {
		objType, err := repo.ObjectType(tag)
		if err != nil {
			return nil, err
		}
		if objType != "tag" {
			continue
		}
		sha, err := repo.RevParse(tag)
		if err != nil {
			return nil, err
		}
		if sha == treeishSha {
			continue
		}
		tagInfo, err := repo.TagInfo(tag)
		if err != nil {
			return nil, err
		}
		info = append(info, tagInfo)
	}
	return info, nil
}

// TreeishMetaOf gathers all metadata about treeish.
func TreeishMetaOf(repo *git.Repository, treeish string) (*TreeishMeta, error) {
	meta := &TreeishMeta{Treeish: treeish}

	objType, err := repo.ObjectType(treeish)
	if err != nil {
		return nil, err
	}

	if objType == "tag" {
		tagInfo, err := repo.TagInfo(treeish)
		if err != nil {
			return nil, err
		}
		tags, err := annotatedTags(repo, treeish)
		if err != nil {
			return nil, err
		}
		meta.Tag = &TagMeta{TagData: *tagInfo, Tags: tags}
	}

	if objType == "tag" || objType == "commit" {
		commitInfo, err := repo.CommitInfo(treeish)
		if err != nil {
			return nil, err
		}
		// Tags pointing at the underlying commit, the treeish peeled.
		tags, err := annotatedTags(repo, treeish+"^0")
		if err != nil {
			return nil, err
		}
		meta.Commit = &CommitMeta{CommitData: *commitInfo, Tags: tags}
	}

	return meta, nil
}

// WriteTreeishMeta writes the metadata document for treeish as JSON into
// outdir. Directory components of filename are stripped. Refuses to overwrite
// an existing file with an ALREADY_EXISTS platform error.
func WriteTreeishMeta(repo *git.Repository, treeish, outdir, filename string) error {
	meta, err := TreeishMetaOf(repo, treeish)
	if err != nil {
		return err
	}

	path := filepath.Join(outdir, filepath.Base(filename))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return errors.Newf(errors.CodeAlreadyExists,
				"file %s already exists, refusing to overwrite", path)
		}
		return errors.Wrapf(err, errors.CodeExecutionFailed,
			"failed to write %s", path)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "    ")
	if err := enc.Encode(meta); err != nil {
		return errors.Wrapf(err, errors.CodeExecutionFailed,
			"failed to write %s", path)
	}
	return nil
}
