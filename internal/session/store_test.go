package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/session"
)

func TestSessionStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Session store suite")
}

func signedToken(expiresAt time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   "user@company.com",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	sToken, err := token.SignedString([]byte("test-key"))
	Expect(err).To(BeNil())
	return sToken
}

var _ = Describe("session store", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "session.yaml")
	})

	Context("authentication state", func() {
		It("starts unauthenticated", func() {
			store := session.NewStore(path)
			Expect(store.IsAuthenticated()).To(BeFalse())
			Expect(store.Credential()).To(BeEmpty())
		})

		It("is authenticated exactly when a credential is present", func() {
			store := session.NewStore(path)

			Expect(store.Set("token-123", api.RoleManager)).To(Succeed())
			Expect(store.IsAuthenticated()).To(BeTrue())
			Expect(store.Get().Role).To(Equal(api.RoleManager))

			Expect(store.Clear()).To(Succeed())
			Expect(store.IsAuthenticated()).To(BeFalse())
			Expect(store.Get().Role).To(BeEmpty())
		})

		It("replaces both fields together", func() {
			store := session.NewStore(path)
			Expect(store.Set("token-123", api.RoleManager)).To(Succeed())
			Expect(store.Set("token-456", api.RoleEmployee)).To(Succeed())

			current := store.Get()
			Expect(current.Credential).To(Equal("token-456"))
			Expect(current.Role).To(Equal(api.RoleEmployee))
		})
	})

	Context("persistence", func() {
		It("survives a reload", func() {
			store := session.NewStore(path)
			Expect(store.Set("token-123", api.RoleEmployee)).To(Succeed())

			reloaded, err := session.Load(path)
			Expect(err).To(BeNil())
			Expect(reloaded.IsAuthenticated()).To(BeTrue())
			Expect(reloaded.Credential()).To(Equal("token-123"))
			Expect(reloaded.Get().Role).To(Equal(api.RoleEmployee))
		})

		It("persists the cleared state on logout", func() {
			store := session.NewStore(path)
			Expect(store.Set("token-123", api.RoleEmployee)).To(Succeed())
			Expect(store.Clear()).To(Succeed())

			reloaded, err := session.Load(path)
			Expect(err).To(BeNil())
			Expect(reloaded.IsAuthenticated()).To(BeFalse())
		})

		It("loads an empty session when the file is missing", func() {
			store, err := session.Load(filepath.Join(GinkgoT().TempDir(), "nope.yaml"))
			Expect(err).To(BeNil())
			Expect(store.IsAuthenticated()).To(BeFalse())
		})

		It("discards a file holding a credential without a role", func() {
			Expect(os.WriteFile(path, []byte("credential: token-123\n"), 0600)).To(Succeed())

			store, err := session.Load(path)
			Expect(err).To(BeNil())
			Expect(store.IsAuthenticated()).To(BeFalse())
		})

		It("degrades an unknown role to employee", func() {
			Expect(os.WriteFile(path, []byte("credential: token-123\nrole: SUPERADMIN\n"), 0600)).To(Succeed())

			store, err := session.Load(path)
			Expect(err).To(BeNil())
			Expect(store.IsAuthenticated()).To(BeTrue())
			Expect(store.Get().Role).To(Equal(api.RoleEmployee))
		})

		It("writes the session file with owner-only permissions", func() {
			store := session.NewStore(path)
			Expect(store.Set("token-123", api.RoleEmployee)).To(Succeed())

			info, err := os.Stat(path)
			Expect(err).To(BeNil())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0600)))
		})
	})

	Context("credential expiry", func() {
		It("reports expiry from the token's exp claim", func() {
			expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
			store := session.NewStore(path)
			Expect(store.Set(signedToken(expiresAt), api.RoleEmployee)).To(Succeed())

			got, ok := store.Get().ExpiresAt()
			Expect(ok).To(BeTrue())
			Expect(got.Unix()).To(Equal(expiresAt.Unix()))
			Expect(store.Get().Expired(time.Now())).To(BeFalse())
		})

		It("flags an expired token", func() {
			store := session.NewStore(path)
			Expect(store.Set(signedToken(time.Now().Add(-time.Hour)), api.RoleEmployee)).To(Succeed())
			Expect(store.Get().Expired(time.Now())).To(BeTrue())
		})

		It("treats an opaque token as never expiring", func() {
			store := session.NewStore(path)
			Expect(store.Set("opaque-token", api.RoleEmployee)).To(Succeed())

			_, ok := store.Get().ExpiresAt()
			Expect(ok).To(BeFalse())
			Expect(store.Get().Expired(time.Now())).To(BeFalse())
		})
	})
})
