package sdb

import (
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("DB rewrites", func() {
	var dir string
	var subject *DB

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "sdb-internal")
		Expect(err).NotTo(HaveOccurred())

		subject, err = Open(filepath.Join(dir, "t.sdb"), NoCompression)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = subject.Close()
		_ = os.RemoveAll(dir)
	})

	It("should save once per mutation", func() {
		Expect(subject.saves).To(Equal(0))

		Expect(subject.CreateTable("t")).To(Succeed())
		Expect(subject.saves).To(Equal(1))

		Expect(subject.Set("t", "k", "v")).To(Succeed())
		Expect(subject.saves).To(Equal(2))

		Expect(subject.DestroyTable("t")).To(Succeed())
		Expect(subject.saves).To(Equal(3))
	})

	It("should not save on reads", func() {
		Expect(subject.CreateTable("t")).To(Succeed())
		before := subject.saves

		_, _ = subject.Get("t", "k")
		_ = subject.Tables()
		_, _ = subject.Keys("t")
		_ = subject.Info()
		Expect(subject.saves).To(Equal(before))
	})

	It("should save exactly once per batch", func() {
		for _, name := range []string{"a", "b", "c"} {
			Expect(subject.CreateTable(name)).To(Succeed())
		}
		before := subject.saves

		ops := make([]Op, 0, 100)
		for i := 0; i < 100; i++ {
			t := []string{"a", "b", "c"}[i%3]
			ops = append(ops, Op{Table: t, Key: fmt.Sprintf("k%03d", i), Value: fmt.Sprintf("v%03d", i)})
		}
		Expect(subject.Batch(ops)).To(Succeed())
		Expect(subject.saves).To(Equal(before + 1))

		for i, op := range ops {
			Expect(subject.Get(op.Table, op.Key)).To(Equal(fmt.Sprintf("v%03d", i)))
		}
	})

	It("should not save an empty batch", func() {
		before := subject.saves
		Expect(subject.Batch(nil)).To(Succeed())
		Expect(subject.saves).To(Equal(before))
	})

	It("should revert a mutation when the rewrite fails", func() {
		Expect(subject.CreateTable("t")).To(Succeed())
		Expect(subject.Set("t", "k", "v")).To(Succeed())

		// make the path unwritable by replacing the file with a directory
		Expect(os.Remove(subject.path)).To(Succeed())
		Expect(os.Mkdir(subject.path, 0755)).To(Succeed())

		Expect(subject.Set("t", "k", "changed")).NotTo(Succeed())
		Expect(subject.Get("t", "k")).To(Equal("v"))

		Expect(subject.Set("t", "k2", "v2")).NotTo(Succeed())
		_, err := subject.Get("t", "k2")
		Expect(err).To(MatchError(ErrNotFound))

		Expect(subject.CreateTable("t2")).NotTo(Succeed())
		Expect(subject.Tables()).To(Equal([]string{"t"}))

		Expect(subject.DestroyTable("t")).NotTo(Succeed())
		Expect(subject.Tables()).To(Equal([]string{"t"}))

		Expect(subject.Batch([]Op{{Table: "t", Key: "k", Value: "batched"}})).NotTo(Succeed())
		Expect(subject.Get("t", "k")).To(Equal("v"))
	})
})
