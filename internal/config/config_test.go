package config_test

import (
	"os"
	"time"

	"ipotracker/internal/config"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// setEnv sets a variable for the duration of the current spec.
func setEnv(key, value string) {
	GinkgoHelper()

	previous, existed := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())

	DeferCleanup(func() {
		if existed {
			os.Setenv(key, previous)
			return
		}
		os.Unsetenv(key)
	})
}

var _ = Describe("LoadConfig", func() {
	BeforeEach(func() {
		for _, key := range []string{"PORT", "GIN_MODE", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "FETCH_TIMEOUT", "SNAPSHOT_TTL"} {
			setEnv(key, "")
			os.Unsetenv(key)
		}
	})

	It("falls back to defaults", func() {
		cfg, err := config.LoadConfig()
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Port).To(Equal("8080"))
		Expect(cfg.GinMode).To(Equal("release"))
		Expect(cfg.LogLevel).To(Equal("info"))
		Expect(cfg.LogFormat).To(Equal("json"))
		Expect(cfg.LogFile).To(BeEmpty())
		Expect(cfg.FetchTimeout).To(Equal(10 * time.Second))
		Expect(cfg.SnapshotTTL).To(Equal(time.Hour))
	})

	It("reads values from the environment", func() {
		setEnv("PORT", "9090")
		setEnv("LOG_FORMAT", "text")
		setEnv("FETCH_TIMEOUT", "3s")
		setEnv("SNAPSHOT_TTL", "30m")

		cfg, err := config.LoadConfig()
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Port).To(Equal("9090"))
		Expect(cfg.LogFormat).To(Equal("text"))
		Expect(cfg.FetchTimeout).To(Equal(3 * time.Second))
		Expect(cfg.SnapshotTTL).To(Equal(30 * time.Minute))
	})

	DescribeTable("rejects bad durations",
		func(key, value string) {
			setEnv(key, value)

			_, err := config.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring(key)))
		},
		Entry("unparsable timeout", "FETCH_TIMEOUT", "soon"),
		Entry("negative timeout", "FETCH_TIMEOUT", "-1s"),
		Entry("zero ttl", "SNAPSHOT_TTL", "0s"),
	)
})
