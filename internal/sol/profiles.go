package sol

import (
	"fmt"

	"github.com/caraveo/aske/pkg/types"
)

// Profile is the static per-engine data used to build a container
type Profile struct {
	Engine          types.Engine
	DisplayName     string
	Aliases         []string // Extra names accepted on the command line
	DefaultPort     int
	ServiceName     string // systemd unit checked by list
	ProvisionScript string // Runs as root inside the guest
	BaseConfig      string // Lima template; may already declare portForwards
	Instructions    string // Post-create text template
}

// Lima guest images shared by all engines
const limaImages = `images:
- location: "https://cloud-images.ubuntu.com/releases/22.04/release/ubuntu-22.04-server-cloudimg-arm64.img"
  arch: "aarch64"
- location: "https://cloud-images.ubuntu.com/releases/22.04/release/ubuntu-22.04-server-cloudimg-amd64.img"
  arch: "x86_64"
mounts:
- location: "~"
  writable: false
- location: "/tmp/lima"
  writable: true
containerd:
  system: false
  user: false
`

const provisionBlock = `provision:
- mode: system
  script: |
{{ .Script | indent 4 }}
`

// profiles is the single list of supported engines, in display order
var profiles = []Profile{
	{
		Engine:      types.EngineMySQL,
		DisplayName: "MySQL",
		DefaultPort: 3306,
		ServiceName: "mysql",
		ProvisionScript: `#!/bin/bash
set -eux -o pipefail
export DEBIAN_FRONTEND=noninteractive
apt-get update
apt-get install -y mysql-server
sed -i 's/^bind-address.*/bind-address = 0.0.0.0/' /etc/mysql/mysql.conf.d/mysqld.cnf
systemctl enable mysql
systemctl restart mysql`,
		BaseConfig: `arch: "default"
` + limaImages + provisionBlock + `portForwards:
- guestPort: {{ .Port }}
  hostPort: {{ .Port }}
`,
		Instructions: `# MySQL in Lima container {{ .Name | quote }}

1. Enter the container:
limactl shell {{ .Name }}

2. Access MySQL:
sudo mysql -u root

3. Create a database and user:
CREATE DATABASE your_database;
CREATE USER 'your_user'@'%' IDENTIFIED BY 'your_password';
GRANT ALL PRIVILEGES ON your_database.* TO 'your_user'@'%';
FLUSH PRIVILEGES;

4. Connect from the host:
mysql -h 127.0.0.1 -P {{ .Port }} -u your_user -p your_database

5. Stop / start the container:
limactl stop {{ .Name }}
limactl start {{ .Name }}
`,
	},
	{
		Engine:      types.EnginePostgreSQL,
		DisplayName: "PostgreSQL",
		Aliases:     []string{"postgres", "pg"},
		DefaultPort: 5432,
		ServiceName: "postgresql",
		ProvisionScript: `#!/bin/bash
set -eux -o pipefail
export DEBIAN_FRONTEND=noninteractive
apt-get update
apt-get install -y postgresql postgresql-contrib
systemctl enable postgresql
systemctl start postgresql`,
		BaseConfig: `arch: "default"
` + limaImages + provisionBlock,
		Instructions: `# PostgreSQL in Lima container {{ .Name | quote }}

1. Enter the container:
limactl shell {{ .Name }}

2. Access PostgreSQL:
sudo -u postgres psql

3. Create a database and user:
sudo -u postgres createuser -P your_user
sudo -u postgres createdb -O your_user your_database

4. Connect from the host:
psql -h 127.0.0.1 -p {{ .Port }} -U your_user your_database

5. Stop / start the container:
limactl stop {{ .Name }}
limactl start {{ .Name }}
`,
	},
	{
		Engine:      types.EngineMongoDB,
		DisplayName: "MongoDB",
		Aliases:     []string{"mongo"},
		DefaultPort: 27017,
		ServiceName: "mongod",
		ProvisionScript: `#!/bin/bash
set -eux -o pipefail
export DEBIAN_FRONTEND=noninteractive
apt-get update
apt-get install -y gnupg curl
curl -fsSL https://www.mongodb.org/static/pgp/server-7.0.asc | gpg --dearmor --yes -o /usr/share/keyrings/mongodb-server-7.0.gpg
echo "deb [ arch=amd64,arm64 signed-by=/usr/share/keyrings/mongodb-server-7.0.gpg ] https://repo.mongodb.org/apt/ubuntu jammy/mongodb-org/7.0 multiverse" > /etc/apt/sources.list.d/mongodb-org-7.0.list
apt-get update
apt-get install -y mongodb-org
sed -i 's/^  bindIp:.*/  bindIp: 0.0.0.0/' /etc/mongod.conf
systemctl enable mongod
systemctl restart mongod`,
		BaseConfig: `arch: "default"
` + limaImages + provisionBlock,
		Instructions: `# MongoDB in Lima container {{ .Name | quote }}

1. Enter the container:
limactl shell {{ .Name }}

2. Access MongoDB:
mongosh

3. Create a user:
use your_database
db.createUser({ user: "your_user", pwd: "your_password", roles: ["readWrite", "dbAdmin"] })

4. Connect from the host:
mongosh "mongodb://127.0.0.1:{{ .Port }}/your_database"

5. Stop / start the container:
limactl stop {{ .Name }}
limactl start {{ .Name }}
`,
	},
}

func init() {
	for _, p := range profiles {
		types.RegisterEngine(p.Engine, p.DisplayName, p.Aliases...)
	}
}

// ProfileFor returns the profile of a supported engine
func ProfileFor(engine types.Engine) (Profile, error) {
	for _, p := range profiles {
		if p.Engine == engine {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("no profile for engine %q", engine)
}

// Profiles returns all profiles in engine display order
func Profiles() []Profile {
	return append([]Profile(nil), profiles...)
}
